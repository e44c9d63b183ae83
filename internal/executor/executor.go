// Package executor defines the contract between the execution plan and the
// workers that drive it: the Executor itself, the narrow Plan surface workers
// need, and the Listener notified around every attempted node.
package executor

import (
	"context"

	"github.com/specialistvlad/taskgrid/internal/node"
)

// Executor drives a plan to completion.
//
// Process returns once every node in the plan is terminal. It does not judge
// whether the run succeeded; callers inspect the plan for that. An error is
// returned only when the executor itself could not do its job.
type Executor interface {
	Process(ctx context.Context, p Plan, l Listener) error
}

// Plan is the part of *plan.Plan that workers use. It exists so tests can
// wrap a real plan and inject faults.
type Plan interface {
	Restrict(ctx context.Context, filter node.Filter) node.Filter
	AwaitNext(ctx context.Context, filter node.Filter) (*node.Node, bool)
	Predecessors(n *node.Node) []*node.Node
	ReportComplete(ctx context.Context, n *node.Node, output any) error
	ReportFailed(ctx context.Context, n *node.Node, cause error) error
	Abandon(ctx context.Context, n *node.Node, cause error) error
	AwaitCompletion()
}
