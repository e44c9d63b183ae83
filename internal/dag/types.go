package dag

import (
	"errors"
	"sync"

	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/nodeid"
)

var (
	// ErrCycle is wrapped by every cycle detection error.
	ErrCycle = errors.New("cycle detected")
	// ErrDuplicateNode is returned when a node ID is added twice.
	ErrDuplicateNode = errors.New("duplicate node")
	// ErrNodeNotFound is returned when an edge or query names an unknown node.
	ErrNodeNotFound = errors.New("node not found")
)

// Graph is a collection of nodes and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all vertices in the graph, keyed by their canonical ID.
	nodes map[string]*vertex
}

// vertex is the mutable, builder-side form of a node.
type vertex struct {
	addr *nodeid.Address
	work node.Work
	// deps holds the vertices this vertex depends on (predecessors).
	deps map[string]*vertex
	// dependents holds the vertices that depend on this vertex (successors).
	dependents map[string]*vertex
}

func (v *vertex) id() string {
	return v.addr.String()
}
