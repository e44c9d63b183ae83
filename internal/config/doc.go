// Package config defines the format-agnostic grid model for the application,
// along with the core interfaces (Loader, Converter) for loading grids from
// files and binding their arguments to the Go types used by handlers.
//
// The config.Model is the single source of truth for the builder package.
// Concrete loaders, for HCL and YAML, live in separate packages.
package config
