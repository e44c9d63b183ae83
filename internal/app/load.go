package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/taskgrid/internal/config"
	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/fsutil"
)

// loadGrid finds every grid file under the configured path, hands each file
// to the loader for its extension and merges the results into one model.
func (a *App) loadGrid(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading grids...", "grid_path", a.config.GridPath)

	var extensions []string
	for _, l := range a.loaders {
		extensions = append(extensions, l.Extensions()...)
	}

	files, err := fsutil.FindFilesByExtension(a.config.GridPath, extensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to find grid files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no grid files (%s) found at %s", strings.Join(extensions, ", "), a.config.GridPath)
	}

	model := &config.Model{}
	for _, l := range a.loaders {
		mine := filesFor(l, files)
		if len(mine) == 0 {
			continue
		}
		m, err := l.Load(ctx, mine...)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}

	logger.Info("Grids loaded successfully.", "files", len(files), "tasks_found", len(model.Tasks))
	return model, nil
}

func filesFor(l config.Loader, files []string) []string {
	var out []string
	for _, f := range files {
		ext := filepath.Ext(f)
		for _, want := range l.Extensions() {
			if ext == want {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
