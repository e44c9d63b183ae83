// Package nodestore defines the interface for mirroring the execution state
// of nodes to readers that live outside the plan.
//
// # Why Node Store Exists
//
// The execution plan is the only source of truth for schedule progress, and
// it guards that truth with a single lock. Consumers that merely want to
// observe progress (the status endpoint, the run summary, event sinks) should
// not contend for that lock. The plan therefore writes every transition
// through to a Store, and observers read the Store instead.
//
// This separation provides several benefits:
//   - **Isolation:** Readers never block claim or report operations
//   - **Testability:** Recorded outcomes can be asserted independently of the plan
//   - **Flexibility:** Other backends can be swapped in without touching the plan
//
// # Lifecycle and Usage
//
// The node store is:
//  1. **Created** once per execution session (ephemeral, never persisted)
//  2. **Seeded** by the plan with every node in Pending state
//  3. **Updated** by the plan on every transition, while the plan holds its lock
//  4. **Queried** by observers at any time
//  5. **Discarded** when the session ends
//
// # State Transitions
//
// Nodes follow this lifecycle:
//
//	Pending → Executing → Complete (with output) OR Failed (with error)
//	Pending → Skipped (with cause)
package nodestore

import (
	"context"

	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/nodeid"
)

// Store is the interface for recording the observable execution state of
// nodes.
//
// It tracks, per node:
//   - **State**: Current lifecycle state
//   - **Output**: Value produced by a Complete node
//   - **Error**: Cause recorded for a Failed or Skipped node
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent reads and writes. Writes for a
// given node are serialised by the plan; reads may happen from any goroutine.
//
// # Typical Implementation
//
// See internal/inmemorystore for the reference implementation using sync.Map.
type Store interface {
	// SetState records the lifecycle state of a node.
	SetState(ctx context.Context, id nodeid.Address, state node.State) error

	// GetState returns the recorded state of a node, or node.Pending if
	// nothing has been recorded for it.
	GetState(ctx context.Context, id nodeid.Address) (node.State, error)

	// SetOutput records the output of a Complete node.
	SetOutput(ctx context.Context, id nodeid.Address, output any) error

	// GetOutput returns the recorded output of a node, or nil.
	GetOutput(ctx context.Context, id nodeid.Address) (any, error)

	// SetError records the failure or skip cause of a node.
	SetError(ctx context.Context, id nodeid.Address, nodeErr error) error

	// GetError returns the recorded cause of a node, or nil.
	GetError(ctx context.Context, id nodeid.Address) (error, error)

	// Snapshot returns the recorded state of every known node, keyed by the
	// node's canonical ID.
	Snapshot(ctx context.Context) (map[string]node.State, error)
}
