// Package localexecutor provides a concrete, in-process implementation of the
// executor.Executor interface backed by a fixed pool of worker goroutines.
package localexecutor

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/executor"
	"github.com/specialistvlad/taskgrid/internal/node"
)

// Executor implements the executor.Executor interface for local execution.
type Executor struct {
	workers int
	filter  node.Filter
}

var _ executor.Executor = (*Executor)(nil)

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers sets the number of concurrent workers. Values below one are
// raised to one.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithFilter limits the run to the nodes matching filter and everything they
// depend on.
func WithFilter(filter node.Filter) Option {
	return func(e *Executor) {
		e.filter = filter
	}
}

// New creates a new local executor. By default it runs one worker per CPU
// and executes every node.
func New(opts ...Option) *Executor {
	e := &Executor{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the configured worker count.
func (e *Executor) Workers() int {
	return e.workers
}

// Process runs the plan to completion and returns once every node is
// terminal.
//
// Cancelling ctx reaches the work of executing nodes; the plan still drains
// through their failures. If the plan rejects a report, every worker stops
// and Process returns that error without waiting for the plan to settle.
func (e *Executor) Process(ctx context.Context, p executor.Plan, l executor.Listener) error {
	if p == nil {
		return executor.ErrNilPlan
	}
	if l == nil {
		l = executor.NopListener{}
	}
	logger := ctxlog.FromContext(ctx)

	filter := p.Restrict(ctx, e.filter)

	logger.Debug("Starting workers.", "count", e.workers)
	g, waitCtx := errgroup.WithContext(context.WithoutCancel(ctx))
	for i := 0; i < e.workers; i++ {
		workerID := i + 1
		g.Go(func() error {
			return e.worker(ctx, waitCtx, p, l, filter, workerID)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("process plan: %w", err)
	}

	p.AwaitCompletion()
	logger.Debug("All workers finished.")
	return nil
}
