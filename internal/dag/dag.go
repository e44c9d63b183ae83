package dag

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/nodeid"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*vertex),
	}
}

// AddNode adds a node with the given ID and work. The ID must be a valid
// nodeid address and must not already be present.
func (g *Graph) AddNode(id string, work node.Work) error {
	addr, err := nodeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid node id %q: %w", id, err)
	}
	if work == nil {
		return fmt.Errorf("node %s: work must not be nil", id)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	key := addr.String()
	if _, ok := g.nodes[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, key)
	}

	g.nodes[key] = &vertex{
		addr:       addr,
		work:       work,
		deps:       make(map[string]*vertex),
		dependents: make(map[string]*vertex),
	}
	return nil
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
// Adding the same edge twice is a no-op.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s: %w", fromID, fromID, ErrCycle)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source %w: %s", ErrNodeNotFound, fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination %w: %s", ErrNodeNotFound, toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// IDs returns every node ID in sorted order.
func (g *Graph) IDs() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.sortedIDs()
}

// Dependencies returns the sorted IDs of the nodes the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return sortedKeys(n.deps), nil
}

// Dependents returns the sorted IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return sortedKeys(n.dependents), nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, naming the first node found to close the cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.detectCycles()
}

func (g *Graph) detectCycles() error {
	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and known not to be on a cycle.
	// temporary: on the current recursion stack.
	// unvisited: everything else.
	permanent := make(map[string]bool, len(g.nodes))
	temporary := make(map[string]bool)

	var visit func(v *vertex) error
	visit = func(v *vertex) error {
		id := v.id()
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return fmt.Errorf("%w involving node '%s'", ErrCycle, id)
		}

		temporary[id] = true
		for _, depID := range sortedKeys(v.dependents) {
			if err := visit(v.dependents[depID]); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true

		return nil
	}

	for _, id := range g.sortedIDs() {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// Build validates the graph and freezes it into a node table. Nodes are
// indexed by sorted ID, so two graphs holding the same nodes and edges
// produce identical tables whatever order they were assembled in. Each call
// returns fresh Pending nodes.
func (g *Graph) Build() ([]*node.Node, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if err := g.detectCycles(); err != nil {
		return nil, err
	}

	ids := g.sortedIDs()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	nodes := make([]*node.Node, len(ids))
	for i, id := range ids {
		v := g.nodes[id]
		n := node.New(v.addr, v.work)
		n.Link(i, indicesOf(v.deps, index), indicesOf(v.dependents, index))
		nodes[i] = n
	}
	return nodes, nil
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func sortedKeys(m map[string]*vertex) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func indicesOf(m map[string]*vertex, index map[string]int) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, index[id])
	}
	slices.Sort(out)
	return out
}
