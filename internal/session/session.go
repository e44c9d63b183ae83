// Package session defines the core interfaces for creating and managing an
// execution session. It abstracts away how the plan, its store and the
// executor are put together for a run.
package session

import (
	"context"

	"github.com/specialistvlad/taskgrid/internal/dag"
	"github.com/specialistvlad/taskgrid/internal/executor"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/nodestore"
	"github.com/specialistvlad/taskgrid/internal/plan"
)

// Options tunes a session.
type Options struct {
	// Workers is the number of concurrent workers; zero means one per CPU.
	Workers int
	// ContinueOnFailure keeps independent work running after a failure.
	ContinueOnFailure bool
	// Strategy names the scheduler.Selector used to order runnable nodes.
	Strategy string
	// Filter restricts the run to matching nodes and their dependencies.
	Filter node.Filter
}

// SessionFactory creates an execution Session. Different implementations can
// support various backends.
type SessionFactory interface {
	NewSession(ctx context.Context, g *dag.Graph, opts Options) (Session, error)
}

// Session represents a single execution run and manages its lifecycle.
type Session interface {
	GetExecutor() (executor.Executor, error)
	GetPlan() *plan.Plan
	GetStore() nodestore.Store
	// Fingerprint identifies the shape of the graph being run.
	Fingerprint() string
	// Close releases any resources held by the session. It accepts a context
	// to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
