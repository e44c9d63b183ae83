package scheduler

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/taskgrid/internal/node"
)

const (
	// StrategyFIFO is the name of the FIFO strategy.
	StrategyFIFO = "fifo"
	// StrategyCriticalPath is the name of the critical-path strategy.
	StrategyCriticalPath = "critical-path"
)

// Strategies lists the names accepted by New.
func Strategies() []string {
	return []string{StrategyFIFO, StrategyCriticalPath}
}

// New returns the selector registered under name. An empty name selects FIFO.
func New(name string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyFIFO:
		return &FIFO{}, nil
	case StrategyCriticalPath:
		return &CriticalPath{}, nil
	default:
		return nil, fmt.Errorf("unknown scheduling strategy %q (want one of %s)", name, strings.Join(Strategies(), ", "))
	}
}

// FIFO treats every runnable node as equal. The plan keeps its frontier in
// the order nodes became runnable, so FIFO hands them out in that order.
type FIFO struct{}

func (*FIFO) Init([]*node.Node) {}

func (*FIFO) Less(a, b *node.Node) bool {
	return false
}

// CriticalPath prefers nodes with more transitive dependents, so long chains
// start as early as possible. Ties fall back to table order.
type CriticalPath struct {
	weight []int
}

// Init counts the transitive dependents of every node.
func (c *CriticalPath) Init(nodes []*node.Node) {
	c.weight = make([]int, len(nodes))

	// reach[i] is the set of nodes reachable from i, memoised.
	reach := make([]map[int]struct{}, len(nodes))
	var visit func(i int) map[int]struct{}
	visit = func(i int) map[int]struct{} {
		if reach[i] != nil {
			return reach[i]
		}
		set := make(map[int]struct{})
		reach[i] = set
		for _, d := range nodes[i].Dependents() {
			set[d] = struct{}{}
			for k := range visit(d) {
				set[k] = struct{}{}
			}
		}
		return set
	}

	for i := range nodes {
		c.weight[i] = len(visit(i))
	}
}

// Weight returns the number of transitive dependents computed for n.
func (c *CriticalPath) Weight(n *node.Node) int {
	if n.Index() < 0 || n.Index() >= len(c.weight) {
		return 0
	}
	return c.weight[n.Index()]
}

func (c *CriticalPath) Less(a, b *node.Node) bool {
	wa, wb := c.Weight(a), c.Weight(b)
	if wa != wb {
		return wa > wb
	}
	return a.Index() < b.Index()
}
