// Package env provides the 'env' handler, which exposes the process
// environment as a task output.
package env

import (
	"context"
	"os"
	"strings"

	"github.com/specialistvlad/taskgrid/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Output defines the data structure returned by the handler.
type Output struct {
	All map[string]string `cty:"all"`
}

func run(ctx context.Context) (any, error) {
	envMap := make(map[string]string)
	for _, e := range os.Environ() {
		k, v, ok := strings.Cut(e, "=")
		if ok {
			envMap[k] = v
		}
	}
	return &Output{All: envMap}, nil
}

// Register registers the handler with the registry.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("env", handlers.NoInput(run))
}
