package plan

import (
	"context"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/node"
)

// Restrict limits the run to the nodes selected by filter and everything
// they depend on. Every other Pending node is Skipped with ErrNotSelected.
// The returned filter matches exactly the kept nodes; pass it to ClaimNext
// or AwaitNext. A nil filter keeps everything and returns nil.
func (p *Plan) Restrict(ctx context.Context, filter node.Filter) node.Filter {
	if filter == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	keep := make([]bool, len(p.nodes))
	var mark func(i int)
	mark = func(i int) {
		if keep[i] {
			return
		}
		keep[i] = true
		for _, pi := range p.nodes[i].Predecessors() {
			mark(pi)
		}
	}
	for i, n := range p.nodes {
		if filter(n) {
			mark(i)
		}
	}

	closure := func(n *node.Node) bool {
		return p.owns(n) && keep[n.Index()]
	}
	skipped := p.skipPending(ctx, func(*node.Node) error { return ErrNotSelected }, closure)

	ctxlog.FromContext(ctx).Info("Restricted run to requested nodes.", "selected", len(p.nodes)-skipped, "skipped", skipped)
	p.cond.Broadcast()
	return closure
}
