package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific grid loader.
type Loader interface {
	// Extensions lists the file extensions, dot included, that the loader
	// understands.
	Extensions() []string
	// Load reads the given files and translates them into the
	// format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Converter binds cty values to Go types and back. It acts as the bridge
// between loaded arguments and the Go types used by handlers.
type Converter interface {
	// DecodeArguments decodes task arguments into a target Go struct.
	DecodeArguments(ctx context.Context, args map[string]cty.Value, target any) error

	// ToCtyValue converts a native Go value returned by a handler into its
	// equivalent cty.Value.
	ToCtyValue(v any) (cty.Value, error)
}
