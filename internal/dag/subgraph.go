package dag

import (
	"fmt"
)

// Subgraph returns a new graph holding the named nodes and every node they
// transitively depend on. Edges between kept nodes are preserved. The work
// attached to each node is shared with the source graph.
func (g *Graph) Subgraph(ids ...string) (*Graph, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	keep := make(map[string]*vertex)
	var walk func(v *vertex)
	walk = func(v *vertex) {
		if _, seen := keep[v.id()]; seen {
			return
		}
		keep[v.id()] = v
		for _, dep := range v.deps {
			walk(dep)
		}
	}

	for _, id := range ids {
		v, ok := g.nodes[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
		walk(v)
	}

	sub := New()
	for id, v := range keep {
		sub.nodes[id] = &vertex{
			addr:       v.addr,
			work:       v.work,
			deps:       make(map[string]*vertex),
			dependents: make(map[string]*vertex),
		}
	}
	for id, v := range keep {
		for depID := range v.deps {
			sub.nodes[id].deps[depID] = sub.nodes[depID]
			sub.nodes[depID].dependents[id] = sub.nodes[id]
		}
	}
	return sub, nil
}
