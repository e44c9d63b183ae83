package plan

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/node"
)

// ReportComplete marks an Executing node Complete with its output and makes
// every dependent whose predecessors are now all Complete runnable.
func (p *Plan) ReportComplete(ctx context.Context, n *node.Node, output any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.owns(n) {
		return fmt.Errorf("report complete %s: %w", n.ID(), ErrUnknownNode)
	}
	if err := n.Complete(output); err != nil {
		return fmt.Errorf("report complete: %w", err)
	}
	p.settle(ctx, n)

	for _, d := range n.Dependents() {
		p.waiting[d]--
		if p.waiting[d] == 0 && p.nodes[d].State() == node.Pending {
			p.frontier = append(p.frontier, d)
		}
	}

	ctxlog.FromContext(ctx).Debug("Node complete.")
	p.cond.Broadcast()
	return nil
}

// ReportFailed marks an Executing node Failed with cause and skips every
// node that can no longer run because of it. Unless the plan continues on
// failure, every other Pending node is skipped with ErrAborted as well.
func (p *Plan) ReportFailed(ctx context.Context, n *node.Node, cause error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.failLocked(ctx, n, cause, "report failed"); err != nil {
		return err
	}

	if !p.continueOnFailure && !p.aborted {
		p.aborted = true
		aborted := p.skipPending(ctx, func(*node.Node) error { return ErrAborted }, nil)
		if aborted > 0 {
			ctxlog.FromContext(ctx).Warn("Aborting run after failure.", "skipped", aborted)
		}
	}

	p.cond.Broadcast()
	return nil
}

// Abandon marks an Executing node that was never run Failed with cause and
// skips its descendants. Unlike ReportFailed it never aborts the run, so
// work that does not depend on n still drains. Executors use it for nodes
// they refuse to run.
func (p *Plan) Abandon(ctx context.Context, n *node.Node, cause error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.failLocked(ctx, n, cause, "abandon"); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Warn("Node abandoned without running.", "error", n.Err())

	p.cond.Broadcast()
	return nil
}

// failLocked moves n to Failed and skips its descendants.
func (p *Plan) failLocked(ctx context.Context, n *node.Node, cause error, op string) error {
	if cause == nil {
		cause = ErrUnknownFailure
	}
	if !p.owns(n) {
		return fmt.Errorf("%s %s: %w", op, n.ID(), ErrUnknownNode)
	}
	if err := n.Fail(cause); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.settle(ctx, n)

	skipped := p.skipDescendants(ctx, n)
	ctxlog.FromContext(ctx).Debug("Node failed.", "error", cause, "skippedDependents", skipped)
	return nil
}

// settle updates the counters for a node that has just left Executing.
func (p *Plan) settle(ctx context.Context, n *node.Node) {
	p.executing--
	p.unfinished--
	p.record(ctx, n)
}

// skipDescendants walks the dependents of failed breadth-first and skips
// every Pending node it reaches. It returns how many nodes were skipped.
func (p *Plan) skipDescendants(ctx context.Context, failed *node.Node) int {
	skipped := 0
	seen := make(map[int]bool)
	queue := failed.Dependents()
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if seen[i] {
			continue
		}
		seen[i] = true

		d := p.nodes[i]
		if d.State() != node.Pending {
			continue
		}
		p.skip(ctx, d, &UpstreamError{Node: d.ID(), Upstream: failed.ID(), Cause: failed.Err()})
		skipped++
		queue = append(queue, d.Dependents()...)
	}
	return skipped
}

// skipPending skips every Pending node for which keep is nil or false, with
// the cause returned by causeFor. It returns how many nodes were skipped.
func (p *Plan) skipPending(ctx context.Context, causeFor func(*node.Node) error, keep node.Filter) int {
	skipped := 0
	for _, n := range p.nodes {
		if n.State() != node.Pending {
			continue
		}
		if keep != nil && keep(n) {
			continue
		}
		p.skip(ctx, n, causeFor(n))
		skipped++
	}
	return skipped
}

func (p *Plan) skip(ctx context.Context, n *node.Node, cause error) {
	if err := n.Skip(cause); err != nil {
		ctxlog.FromContext(ctx).Error("Could not skip node.", "node", n.ID(), "error", err)
		return
	}
	p.unfinished--
	if pos := slices.Index(p.frontier, n.Index()); pos >= 0 {
		p.frontier = slices.Delete(p.frontier, pos, pos+1)
	}
	p.record(ctx, n)
}
