// Package node defines the vertex of the execution graph: its identity, its
// position in the plan's node table, its lifecycle state and its result.
package node

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/specialistvlad/taskgrid/internal/nodeid"
)

// ErrIllegalTransition is returned when a state change is not permitted
// from the node's current state.
var ErrIllegalTransition = errors.New("illegal state transition")

// Work is the execution callback attached to a node. A non-nil error marks
// the attempt as failed; the error itself is kept as the failure cause and
// is never inspected by the scheduler.
type Work interface {
	Execute(ctx context.Context) (any, error)
}

// WorkFunc adapts an ordinary function to the Work interface.
type WorkFunc func(ctx context.Context) (any, error)

// Execute calls f(ctx).
func (f WorkFunc) Execute(ctx context.Context) (any, error) {
	return f(ctx)
}

// Filter selects nodes. A nil Filter matches every node.
type Filter func(*Node) bool

// Match reports whether n is selected by f.
func (f Filter) Match(n *Node) bool {
	return f == nil || f(n)
}

// Node is a single vertex in the execution graph.
//
// Edges are held as indices into the owning plan's node table, never as
// pointers, so a node does not own its neighbours.
type Node struct {
	id   *nodeid.Address
	work Work

	index      int
	preds      []int
	dependents []int

	// state is read lock-free by anyone; it is only written by the plan
	// while holding its lock.
	state atomic.Int32
	// output and err are written before state becomes terminal and are
	// immutable afterwards.
	output any
	err    error
}

// New creates a Pending node that has not yet been placed in a node table.
func New(id *nodeid.Address, work Work) *Node {
	return &Node{id: id, work: work, index: -1}
}

// ID returns the canonical string representation of the node's address.
func (n *Node) ID() string {
	return n.id.String()
}

// Address returns the structured address of the node.
func (n *Node) Address() *nodeid.Address {
	return n.id
}

// Work returns the node's execution callback.
func (n *Node) Work() Work {
	return n.work
}

// Index returns the node's position in its node table, or -1 if unlinked.
func (n *Node) Index() int {
	return n.index
}

// Predecessors returns the table indices of the nodes n depends on.
func (n *Node) Predecessors() []int {
	return append([]int(nil), n.preds...)
}

// Dependents returns the table indices of the nodes that depend on n.
func (n *Node) Dependents() []int {
	return append([]int(nil), n.dependents...)
}

// Link places the node in a node table. It is called once by the graph
// builder, before the node is handed to a plan.
func (n *Node) Link(index int, preds, dependents []int) {
	n.index = index
	n.preds = append([]int(nil), preds...)
	n.dependents = append([]int(nil), dependents...)
}

// State atomically retrieves the node's execution state.
func (n *Node) State() State {
	return State(n.state.Load())
}

// Output returns the value produced by a Complete node, nil otherwise.
func (n *Node) Output() any {
	if n.State() != Complete {
		return nil
	}
	return n.output
}

// Err returns the cause recorded for a Failed or Skipped node, nil otherwise.
func (n *Node) Err() error {
	switch n.State() {
	case Failed, Skipped:
		return n.err
	default:
		return nil
	}
}

// The transitions below enforce the state machine. Callers must serialise
// them; the plan does so with its lock.

// Claim moves the node from Pending to Executing.
func (n *Node) Claim() error {
	if !n.state.CompareAndSwap(int32(Pending), int32(Executing)) {
		return n.illegal(Executing)
	}
	return nil
}

// Complete moves the node from Executing to Complete and records output.
func (n *Node) Complete(output any) error {
	if n.State() != Executing {
		return n.illegal(Complete)
	}
	n.output = output
	n.state.Store(int32(Complete))
	return nil
}

// Fail moves the node from Executing to Failed and records the cause.
func (n *Node) Fail(cause error) error {
	if n.State() != Executing {
		return n.illegal(Failed)
	}
	n.err = cause
	n.state.Store(int32(Failed))
	return nil
}

// Skip moves the node from Pending to Skipped and records why.
func (n *Node) Skip(cause error) error {
	if n.State() != Pending {
		return n.illegal(Skipped)
	}
	n.err = cause
	n.state.Store(int32(Skipped))
	return nil
}

func (n *Node) illegal(to State) error {
	return fmt.Errorf("node %s: %s -> %s: %w", n.ID(), n.State(), to, ErrIllegalTransition)
}
