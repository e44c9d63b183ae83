package app

import (
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/taskgrid/internal/config"
	"github.com/specialistvlad/taskgrid/internal/ctyconv"
	"github.com/specialistvlad/taskgrid/internal/handlers"
	"github.com/specialistvlad/taskgrid/internal/hcl_adapter"
	"github.com/specialistvlad/taskgrid/internal/localsession"
	"github.com/specialistvlad/taskgrid/internal/session"
	"github.com/specialistvlad/taskgrid/internal/yaml_adapter"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW           io.Writer
	logger         *slog.Logger
	config         *Config
	handlers       *handlers.Handlers
	loaders        []config.Loader
	converter      config.Converter
	sessionFactory session.SessionFactory

	httpServer *http.Server
	// current describes the run in progress, for the status endpoint.
	current atomic.Pointer[runState]
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and handler registry.
// When no modules are given, the built-in modules are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...handlers.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := handlers.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	reg.RegisterModules(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "handlers", reg.Names())

	return &App{
		outW:           outW,
		logger:         logger,
		config:         cfg,
		handlers:       reg,
		loaders:        []config.Loader{hcl_adapter.NewLoader(), yaml_adapter.NewLoader()},
		converter:      ctyconv.New(),
		sessionFactory: &localsession.SessionFactory{},
	}
}

// Handlers returns the application's handler registry. This is primarily for
// testing.
func (a *App) Handlers() *handlers.Handlers {
	return a.handlers
}
