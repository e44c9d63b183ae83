package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/taskgrid/internal/config"
	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/dag"
	"github.com/specialistvlad/taskgrid/internal/handlers"
	"github.com/specialistvlad/taskgrid/internal/task"
)

var (
	// ErrUnknownHandler is returned when a task names an unregistered handler.
	ErrUnknownHandler = errors.New("unknown handler")
	// ErrUnknownDependency is returned when depends_on names a missing task.
	ErrUnknownDependency = errors.New("unknown dependency")
)

// Builder creates graphs from grid models.
type Builder struct {
	handlers  *handlers.Handlers
	converter config.Converter
}

// New creates a Builder resolving handlers in reg and binding arguments with
// conv.
func New(reg *handlers.Handlers, conv config.Converter) *Builder {
	return &Builder{handlers: reg, converter: conv}
}

// Build validates the model and returns its dependency graph.
func (b *Builder) Build(ctx context.Context, model *config.Model) (*dag.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}

	g := dag.New()
	var errs []error
	for _, def := range model.Tasks {
		h, ok := b.handlers.Get(def.Handler)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: task %q: %w %q", def.Source, def.Name, ErrUnknownHandler, def.Handler))
			continue
		}
		t := task.New(def, h, b.converter)
		if err := t.Validate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", def.Source, err))
			continue
		}
		if err := g.AddNode(def.Name, t); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", def.Source, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, def := range model.Tasks {
		for _, dep := range def.DependsOn {
			if err := g.AddEdge(dep, def.Name); err != nil {
				if errors.Is(err, dag.ErrNodeNotFound) {
					err = fmt.Errorf("task %q depends on %q: %w", def.Name, dep, ErrUnknownDependency)
				}
				errs = append(errs, fmt.Errorf("%s: %w", def.Source, err))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	logger.Debug("Built dependency graph.", "nodes", g.Len())
	return g, nil
}
