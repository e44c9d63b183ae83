// Package localsession provides a concrete implementation of the session.Session
// and session.SessionFactory interfaces for local, in-process execution.
package localsession

import (
	"context"
	"fmt"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/dag"
	"github.com/specialistvlad/taskgrid/internal/executor"
	"github.com/specialistvlad/taskgrid/internal/inmemorystore"
	"github.com/specialistvlad/taskgrid/internal/localexecutor"
	"github.com/specialistvlad/taskgrid/internal/nodestore"
	"github.com/specialistvlad/taskgrid/internal/plan"
	"github.com/specialistvlad/taskgrid/internal/scheduler"
	"github.com/specialistvlad/taskgrid/internal/session"
)

// SessionFactory implements session.SessionFactory for local runs.
type SessionFactory struct{}

var _ session.SessionFactory = (*SessionFactory)(nil)

// NewSession freezes the graph into a plan and wires it to an in-memory
// store and a local executor.
func (f *SessionFactory) NewSession(ctx context.Context, g *dag.Graph, opts session.Options) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)

	selector, err := scheduler.New(opts.Strategy)
	if err != nil {
		return nil, err
	}

	fingerprint, err := g.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprint graph: %w", err)
	}

	nodes, err := g.Build()
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	// --- This is where the dependency injection wiring happens ---
	nodeStore := inmemorystore.New()
	p, err := plan.New(nodes,
		plan.WithContinueOnFailure(opts.ContinueOnFailure),
		plan.WithSelector(selector),
		plan.WithStore(nodeStore),
	)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	execOpts := []localexecutor.Option{localexecutor.WithFilter(opts.Filter)}
	if opts.Workers > 0 {
		execOpts = append(execOpts, localexecutor.WithWorkers(opts.Workers))
	}
	exec := localexecutor.New(execOpts...)
	// --- End of dependency injection ---

	logger.Debug("Local session created.",
		"nodes", p.Len(),
		"workers", exec.Workers(),
		"strategy", opts.Strategy,
		"continueOnFailure", opts.ContinueOnFailure,
		"fingerprint", fingerprint,
	)

	return &Session{
		executor:    exec,
		plan:        p,
		store:       nodeStore,
		fingerprint: fingerprint,
	}, nil
}

// Session implements session.Session for local runs.
type Session struct {
	executor    executor.Executor
	plan        *plan.Plan
	store       nodestore.Store
	fingerprint string
}

// GetExecutor returns the executor that was created and wired up by the factory.
func (s *Session) GetExecutor() (executor.Executor, error) {
	return s.executor, nil
}

// GetPlan returns the plan for this run.
func (s *Session) GetPlan() *plan.Plan {
	return s.plan
}

// GetStore returns the store mirroring the plan's node states.
func (s *Session) GetStore() nodestore.Store {
	return s.store
}

// Fingerprint returns the blake3 digest of the graph's shape.
func (s *Session) Fingerprint() string {
	return s.fingerprint
}

// Close logs the final state of the plan. A local session holds no other
// resources.
func (s *Session) Close(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if s.plan.HasUnfinishedWork() {
		logger.Warn("Session closed with unfinished work.")
	}
	logger.Debug("Local session closed.")
	return nil
}
