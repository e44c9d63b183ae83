package plan

import (
	"errors"

	"github.com/specialistvlad/taskgrid/internal/node"
)

// HasUnfinishedWork reports whether any node is still Pending or Executing.
func (p *Plan) HasUnfinishedWork() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unfinished > 0
}

// AwaitCompletion blocks until every node is terminal.
func (p *Plan) AwaitCompletion() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.unfinished > 0 {
		p.cond.Wait()
	}
}

// Nodes returns the node table. The slice is a copy; the nodes are shared.
func (p *Plan) Nodes() []*node.Node {
	return append([]*node.Node(nil), p.nodes...)
}

// Node looks a node up by its canonical ID.
func (p *Plan) Node(id string) (*node.Node, bool) {
	i, ok := p.byID[id]
	if !ok {
		return nil, false
	}
	return p.nodes[i], true
}

// Predecessors resolves the predecessor indices of n against the table.
func (p *Plan) Predecessors(n *node.Node) []*node.Node {
	idx := n.Predecessors()
	out := make([]*node.Node, 0, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(p.nodes) {
			out = append(out, p.nodes[i])
		}
	}
	return out
}

// Len returns the number of nodes in the plan.
func (p *Plan) Len() int {
	return len(p.nodes)
}

// ContinueOnFailure reports whether the plan keeps running independent work
// after a failure.
func (p *Plan) ContinueOnFailure() bool {
	return p.continueOnFailure
}

// Summary counts nodes per state.
type Summary struct {
	Total  int
	Counts map[node.State]int
	// Failed lists the Failed nodes in table order.
	Failed []*node.Node
	// Blocked counts Skipped nodes that were selected for the run but could
	// not run because of a failure.
	Blocked int
}

// Succeeded reports whether the plan settled with every selected node
// Complete.
func (s Summary) Succeeded() bool {
	return len(s.Failed) == 0 && s.Blocked == 0 &&
		s.Counts[node.Pending] == 0 && s.Counts[node.Executing] == 0
}

// Err returns a *FailureError naming the Failed nodes, or nil if none failed.
func (s Summary) Err() error {
	if len(s.Failed) == 0 {
		return nil
	}
	ids := make([]string, len(s.Failed))
	for i, n := range s.Failed {
		ids[i] = n.ID()
	}
	return &FailureError{Failed: ids, Cause: s.Failed[0].Err()}
}

// Summary takes a consistent snapshot of the plan's node states.
func (p *Plan) Summary() Summary {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Summary{Total: len(p.nodes), Counts: make(map[node.State]int)}
	for _, st := range node.AllStates() {
		s.Counts[st] = 0
	}
	for _, n := range p.nodes {
		st := n.State()
		s.Counts[st]++
		switch {
		case st == node.Failed:
			s.Failed = append(s.Failed, n)
		case st == node.Skipped && !errors.Is(n.Err(), ErrNotSelected):
			s.Blocked++
		}
	}
	return s
}
