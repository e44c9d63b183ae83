// Package fail provides the 'fail' handler. It always fails and exists to
// exercise failure handling in grids.
package fail

import (
	"context"
	"errors"

	"github.com/specialistvlad/taskgrid/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the fail handler.
type Input struct {
	Message string `cty:"message,optional"`
}

func run(ctx context.Context, input *Input) (any, error) {
	msg := input.Message
	if msg == "" {
		msg = "task failed"
	}
	return nil, errors.New(msg)
}

// Register registers the handler with the registry.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("fail", handlers.Typed(run))
}
