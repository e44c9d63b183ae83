package testutil

import "github.com/specialistvlad/taskgrid/internal/handlers"

// SimpleModule is a test helper for easily creating a mock module that
// registers a single handler.
type SimpleModule struct {
	Name    string
	Handler *handlers.RegisteredHandler
}

// Register implements the handlers.Module interface.
func (m *SimpleModule) Register(h *handlers.Handlers) {
	if m.Name != "" && m.Handler != nil {
		h.RegisterHandler(m.Name, m.Handler)
	}
}
