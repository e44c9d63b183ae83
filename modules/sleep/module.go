// Package sleep provides the 'sleep' handler, which waits for a duration or
// until the task is cancelled.
package sleep

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the sleep handler.
type Input struct {
	Duration time.Duration `cty:"duration"`
}

// Output defines the data structure returned by the handler.
type Output struct {
	Slept string `cty:"slept"`
}

func run(ctx context.Context, input *Input) (any, error) {
	if input.Duration < 0 {
		return nil, fmt.Errorf("duration must not be negative, got %s", input.Duration)
	}
	ctxlog.FromContext(ctx).Debug("Sleeping.", "duration", input.Duration)

	timer := time.NewTimer(input.Duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return &Output{Slept: input.Duration.String()}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Register registers the handler with the registry.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("sleep", handlers.Typed(run))
}
