// Package handlers holds the registry of named task handlers. Built-in and
// test modules register their handlers here; the builder looks them up by
// the handler name used in the grid.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Func is the Go implementation of a handler. input is the value returned by
// the handler's NewInput, already populated from the task's arguments.
type Func func(ctx context.Context, input any) (any, error)

// RegisteredHandler holds the compiled Go parts of a handler.
type RegisteredHandler struct {
	// NewInput returns a pointer to a fresh input struct, or nil when the
	// handler takes no arguments.
	NewInput func() any
	Fn       Func
}

// Module is implemented by every package that contributes handlers.
type Module interface {
	Register(h *Handlers)
}

// Handlers holds all the registered handlers.
type Handlers struct {
	all map[string]*RegisteredHandler
}

// New creates and initializes a new Handlers registry.
func New() *Handlers {
	return &Handlers{
		all: make(map[string]*RegisteredHandler),
	}
}

// RegisterHandler registers a handler under name. Registering the same name
// twice is a programming error and panics.
func (h *Handlers) RegisterHandler(name string, handler *RegisteredHandler) {
	if _, exists := h.all[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	if handler == nil || handler.Fn == nil {
		panic(fmt.Sprintf("handler '%s' has no function", name))
	}
	slog.Debug("Registering handler.", "name", name)
	h.all[name] = handler
}

// RegisterModules lets each module register its handlers.
func (h *Handlers) RegisterModules(modules ...Module) {
	for _, m := range modules {
		m.Register(h)
	}
}

// Get returns the handler registered under name.
func (h *Handlers) Get(name string) (*RegisteredHandler, bool) {
	handler, ok := h.all[name]
	return handler, ok
}

// Names returns the sorted names of all registered handlers.
func (h *Handlers) Names() []string {
	names := make([]string, 0, len(h.all))
	for name := range h.all {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Typed adapts a handler written against a concrete input type. I is the
// input struct; fn receives a pointer to it.
func Typed[I any](fn func(ctx context.Context, input *I) (any, error)) *RegisteredHandler {
	return &RegisteredHandler{
		NewInput: func() any { return new(I) },
		Fn: func(ctx context.Context, input any) (any, error) {
			in, ok := input.(*I)
			if !ok {
				return nil, fmt.Errorf("handler input has type %T, want %T", input, new(I))
			}
			return fn(ctx, in)
		},
	}
}

// NoInput adapts a handler that takes no arguments.
func NoInput(fn func(ctx context.Context) (any, error)) *RegisteredHandler {
	return &RegisteredHandler{
		Fn: func(ctx context.Context, _ any) (any, error) {
			return fn(ctx)
		},
	}
}
