// Package yaml_adapter loads grids written in YAML.
//
//	tasks:
//	  - name: app.compile
//	    handler: shell
//	    depends_on: [app.generate]
//	    arguments:
//	      command: go build ./...
//
// Arguments are converted to cty values through their JSON form, so they
// carry the same types an equivalent HCL grid would produce.
package yaml_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/specialistvlad/taskgrid/internal/config"
	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new YAML grid loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

type fileRoot struct {
	Tasks []yaml.Node `yaml:"tasks"`
}

type taskEntry struct {
	Name      string         `yaml:"name"`
	Handler   string         `yaml:"handler"`
	DependsOn []string       `yaml:"depends_on"`
	Arguments map[string]any `yaml:"arguments"`
}

var taskKeys = []string{"name", "handler", "depends_on", "arguments"}

// Load parses every file and translates its tasks into the model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	model := &config.Model{}
	for _, file := range paths {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}

		var root fileRoot
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse YAML file %s: %w", file, err)
		}

		for i := range root.Tasks {
			t, err := translateTask(file, &root.Tasks[i])
			if err != nil {
				return nil, err
			}
			model.Tasks = append(model.Tasks, t)
		}
	}

	logger.Debug("YAML loading complete.", "tasks", len(model.Tasks))
	return model, nil
}

func translateTask(file string, n *yaml.Node) (*config.Task, error) {
	source := fmt.Sprintf("%s:%d", file, n.Line)
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: task must be a mapping", source)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if key := n.Content[i].Value; !slices.Contains(taskKeys, key) {
			return nil, fmt.Errorf("%s: unknown task field %q", source, key)
		}
	}

	var entry taskEntry
	if err := n.Decode(&entry); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	args, err := toCtyArguments(entry.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%s: task %q: %w", source, entry.Name, err)
	}

	return &config.Task{
		Handler:   entry.Handler,
		Name:      entry.Name,
		DependsOn: entry.DependsOn,
		Arguments: args,
		Source:    source,
	}, nil
}

// toCtyArguments converts decoded YAML values into cty values by way of JSON.
func toCtyArguments(raw map[string]any) (map[string]cty.Value, error) {
	args := make(map[string]cty.Value, len(raw))
	for name, v := range raw {
		if v == nil {
			args[name] = cty.NullVal(cty.DynamicPseudoType)
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		ty, err := ctyjson.ImpliedType(data)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		val, err := ctyjson.Unmarshal(data, ty)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		args[name] = val
	}
	return args, nil
}
