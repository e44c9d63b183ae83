// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: load the
// grid files, build the dependency graph, execute it and report the outcome.
// It is decoupled from any specific entrypoint like a CLI or server.
package app
