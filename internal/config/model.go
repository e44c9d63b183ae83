package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ErrDuplicateTask is returned when two tasks share a name.
var ErrDuplicateTask = errors.New("duplicate task")

// Model is the unified, format-agnostic representation of a grid.
type Model struct {
	Tasks []*Task
}

// Task is the format-agnostic representation of a single task definition.
type Task struct {
	// Handler names the registered handler that runs the task.
	Handler string
	// Name is the task's node ID, such as "app.compile" or "shard[2]".
	Name      string
	DependsOn []string
	Arguments map[string]cty.Value
	// Source points at the definition, for error messages.
	Source string
}

// Merge appends the tasks of other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Tasks = append(m.Tasks, other.Tasks...)
}

// Validate checks the model for problems that do not need the handler
// registry: empty fields and duplicate names.
func (m *Model) Validate() error {
	seen := make(map[string]*Task, len(m.Tasks))
	var errs []error
	for _, t := range m.Tasks {
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Errorf("%s: task name must not be empty", t.location()))
			continue
		}
		if strings.TrimSpace(t.Handler) == "" {
			errs = append(errs, fmt.Errorf("%s: task %q has no handler", t.location(), t.Name))
		}
		if prev, ok := seen[t.Name]; ok {
			errs = append(errs, fmt.Errorf("%w %q: defined at %s and %s", ErrDuplicateTask, t.Name, prev.location(), t.location()))
			continue
		}
		seen[t.Name] = t
	}
	return errors.Join(errs...)
}

func (t *Task) location() string {
	if t.Source == "" {
		return "<unknown>"
	}
	return t.Source
}
