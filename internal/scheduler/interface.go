package scheduler

import "github.com/specialistvlad/taskgrid/internal/node"

// Selector orders the runnable nodes of a plan.
//
// # Contract
//
//   - Init is called exactly once, before the first call to Less.
//   - Less must be a strict weak ordering over the nodes passed to Init.
//   - Implementations must be deterministic: the same node table must always
//     yield the same order.
type Selector interface {
	// Init lets the selector precompute per-node ranks from the node table.
	Init(nodes []*node.Node)
	// Less reports whether a should be handed out before b.
	Less(a, b *node.Node) bool
}
