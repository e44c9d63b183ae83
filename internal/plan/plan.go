package plan

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/nodestore"
	"github.com/specialistvlad/taskgrid/internal/scheduler"
)

// Plan tracks the execution state of a fixed set of nodes.
type Plan struct {
	mu   sync.Mutex
	cond *sync.Cond

	nodes []*node.Node
	byID  map[string]int

	selector          scheduler.Selector
	store             nodestore.Store
	continueOnFailure bool

	// waiting[i] is the number of predecessors of node i not yet Complete.
	waiting []int
	// frontier holds runnable Pending nodes in the order they became runnable.
	frontier []int
	// unfinished counts nodes that are Pending or Executing.
	unfinished int
	executing  int
	aborted    bool
}

// New validates a linked node table and builds a plan over it. Every node
// must be Pending, sit at its own index and agree with its neighbours about
// the edges between them. The table must be acyclic.
func New(nodes []*node.Node, opts ...Option) (*Plan, error) {
	p := &Plan{
		nodes:    nodes,
		byID:     make(map[string]int, len(nodes)),
		selector: &scheduler.FIFO{},
		waiting:  make([]int, len(nodes)),
	}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	p.selector.Init(nodes)
	p.unfinished = len(nodes)
	for i, n := range nodes {
		p.waiting[i] = len(n.Predecessors())
		if p.waiting[i] == 0 {
			p.frontier = append(p.frontier, i)
		}
		p.record(context.Background(), n)
	}
	return p, nil
}

func (p *Plan) validate() error {
	for i, n := range p.nodes {
		if n == nil {
			return fmt.Errorf("%w: nil node at index %d", ErrInvalidGraph, i)
		}
		if n.Index() != i {
			return fmt.Errorf("%w: node %s has index %d, expected %d", ErrInvalidGraph, n.ID(), n.Index(), i)
		}
		if n.State() != node.Pending {
			return fmt.Errorf("%w: node %s is %s, expected pending", ErrInvalidGraph, n.ID(), n.State())
		}
		if _, dup := p.byID[n.ID()]; dup {
			return fmt.Errorf("%w: duplicate node %s", ErrInvalidGraph, n.ID())
		}
		p.byID[n.ID()] = i
	}

	for _, n := range p.nodes {
		for _, pi := range n.Predecessors() {
			if pi < 0 || pi >= len(p.nodes) {
				return fmt.Errorf("%w: node %s has predecessor index %d out of range", ErrInvalidGraph, n.ID(), pi)
			}
			if !contains(p.nodes[pi].Dependents(), n.Index()) {
				return fmt.Errorf("%w: node %s lists %s as predecessor but not the reverse", ErrInvalidGraph, n.ID(), p.nodes[pi].ID())
			}
		}
		for _, di := range n.Dependents() {
			if di < 0 || di >= len(p.nodes) {
				return fmt.Errorf("%w: node %s has dependent index %d out of range", ErrInvalidGraph, n.ID(), di)
			}
			if !contains(p.nodes[di].Predecessors(), n.Index()) {
				return fmt.Errorf("%w: node %s lists %s as dependent but not the reverse", ErrInvalidGraph, n.ID(), p.nodes[di].ID())
			}
		}
	}

	// Kahn's algorithm: every node must be reachable by peeling off nodes
	// with no remaining predecessors.
	indegree := make([]int, len(p.nodes))
	queue := make([]int, 0, len(p.nodes))
	for i, n := range p.nodes {
		indegree[i] = len(n.Predecessors())
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	visited := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		visited++
		for _, d := range p.nodes[i].Dependents() {
			indegree[d]--
			if indegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	if visited != len(p.nodes) {
		return fmt.Errorf("%w: cycle detected among %d node(s)", ErrInvalidGraph, len(p.nodes)-visited)
	}
	return nil
}

// owns reports whether n is the node this plan holds at n's index.
func (p *Plan) owns(n *node.Node) bool {
	i := n.Index()
	return i >= 0 && i < len(p.nodes) && p.nodes[i] == n
}

// record mirrors the current state of n into the store, if there is one.
func (p *Plan) record(ctx context.Context, n *node.Node) {
	if p.store == nil {
		return
	}
	if err := mirror(ctx, p.store, n); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to record node state.", "node", n.ID(), "error", err)
	}
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
