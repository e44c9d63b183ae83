package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/taskgrid/internal/nodeid"
	"github.com/specialistvlad/taskgrid/internal/scheduler"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GridPath string // a grid file or a directory of grid files

	WorkerCount       int // 0 means one worker per CPU
	ContinueOnFailure bool
	Strategy          string
	// Only restricts the run to the listed node addresses, each matching the
	// node itself and every node under it, plus their dependencies.
	Only []string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	NotifyURL       string
	NotifyNamespace string
	NotifyTimeout   time.Duration
}

const defaultNotifyTimeout = 5 * time.Second

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("worker count must not be negative, got %d", cfg.WorkerCount)
	}
	if _, err := scheduler.New(cfg.Strategy); err != nil {
		return nil, err
	}
	for _, raw := range cfg.Only {
		if _, err := nodeid.Parse(raw); err != nil {
			return nil, fmt.Errorf("invalid node address %q: %w", raw, err)
		}
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d out of range", cfg.HealthcheckPort)
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
	return &cfg, nil
}
