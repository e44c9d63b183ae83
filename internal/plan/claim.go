package plan

import (
	"context"
	"slices"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/node"
)

// ClaimNext atomically picks one runnable node matching filter, moves it to
// Executing and returns it. The caller owns the node until it reports an
// outcome. It returns false when nothing matching is runnable right now.
func (p *Plan) ClaimNext(ctx context.Context, filter node.Filter) (*node.Node, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.claimLocked(ctx, filter)
}

// AwaitNext is like ClaimNext but blocks while work is unfinished and nothing
// matching is runnable. It returns false once the plan has settled, or once
// ctx is done; in the latter case the plan may still have unfinished work.
//
// A worker whose filter can never match a remaining node would block until
// other workers settle the plan; Restrict returns a filter that avoids this.
func (p *Plan) AwaitNext(ctx context.Context, filter node.Filter) (*node.Node, bool) {
	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.cond.Broadcast()
	})
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		if ctx.Err() != nil {
			return nil, false
		}
		if n, ok := p.claimLocked(ctx, filter); ok {
			return n, true
		}
		if p.unfinished == 0 {
			return nil, false
		}
		p.cond.Wait()
	}
}

func (p *Plan) claimLocked(ctx context.Context, filter node.Filter) (*node.Node, bool) {
	best := -1
	for pos, i := range p.frontier {
		n := p.nodes[i]
		if !filter.Match(n) {
			continue
		}
		if best < 0 || p.selector.Less(n, p.nodes[p.frontier[best]]) {
			best = pos
		}
	}
	if best < 0 {
		return nil, false
	}

	n := p.nodes[p.frontier[best]]
	p.frontier = slices.Delete(p.frontier, best, best+1)
	if err := n.Claim(); err != nil {
		// Only Pending nodes enter the frontier and every path that moves
		// them out of Pending also removes them from it.
		ctxlog.FromContext(ctx).Error("Frontier held a node that could not be claimed.", "node", n.ID(), "error", err)
		return nil, false
	}
	p.executing++
	p.record(ctx, n)
	ctxlog.FromContext(ctx).Debug("Claimed node.", "node", n.ID())
	return n, true
}
