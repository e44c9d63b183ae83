// Package print provides the 'print' handler, which writes a message to the
// application's output.
package print

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct {
	// Out receives printed messages. Nil means os.Stdout.
	Out io.Writer
}

// Input defines the arguments for the print handler.
type Input struct {
	Message string `cty:"message"`
}

// Output defines the data structure returned by the handler.
type Output struct {
	Message string `cty:"message"`
}

func (m *Module) run(ctx context.Context, input *Input) (any, error) {
	ctxlog.FromContext(ctx).Debug("Printing message.")

	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	if _, err := fmt.Fprintln(out, input.Message); err != nil {
		return nil, fmt.Errorf("failed to write message: %w", err)
	}
	return &Output{Message: input.Message}, nil
}

// Register registers the handler with the registry.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("print", handlers.Typed(m.run))
}
