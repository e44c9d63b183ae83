// Package task binds a configured task to its handler, producing the
// node.Work that the executor runs.
package task

import (
	"context"
	"fmt"

	"github.com/specialistvlad/taskgrid/internal/config"
	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/handlers"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Task is a node.Work that calls a handler with decoded arguments and returns
// its result as a cty.Value.
type Task struct {
	Name    string
	Handler string

	handler   *handlers.RegisteredHandler
	args      map[string]cty.Value
	converter config.Converter
}

var _ node.Work = (*Task)(nil)

// New creates a task from its definition and resolved handler.
func New(def *config.Task, h *handlers.RegisteredHandler, conv config.Converter) *Task {
	return &Task{
		Name:      def.Name,
		Handler:   def.Handler,
		handler:   h,
		args:      def.Arguments,
		converter: conv,
	}
}

// Validate decodes the arguments without running anything, so bad
// arguments are reported before execution starts.
func (t *Task) Validate(ctx context.Context) error {
	_, err := t.input(ctx)
	return err
}

// Execute implements node.Work.
func (t *Task) Execute(ctx context.Context) (any, error) {
	logger := ctxlog.FromContext(ctx).With("handler", t.Handler)
	ctx = ctxlog.WithLogger(ctx, logger)

	input, err := t.input(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("Calling handler.")
	raw, err := t.handler.Fn(ctx, input)
	if err != nil {
		return nil, err
	}

	out, err := t.converter.ToCtyValue(raw)
	if err != nil {
		return nil, fmt.Errorf("task %s: convert output: %w", t.Name, err)
	}
	return out, nil
}

func (t *Task) input(ctx context.Context) (any, error) {
	if t.handler.NewInput == nil {
		if len(t.args) > 0 {
			return nil, fmt.Errorf("task %s: handler %q takes no arguments", t.Name, t.Handler)
		}
		return nil, nil
	}
	input := t.handler.NewInput()
	if err := t.converter.DecodeArguments(ctx, t.args, input); err != nil {
		return nil, fmt.Errorf("task %s: %w", t.Name, err)
	}
	return input, nil
}
