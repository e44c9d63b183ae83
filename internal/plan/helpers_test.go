package plan

import (
	"context"
	"testing"

	"github.com/specialistvlad/taskgrid/internal/dag"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/stretchr/testify/require"
)

var noop = node.WorkFunc(func(context.Context) (any, error) { return nil, nil })

// buildNodes returns the linked node table for the given IDs and
// "from -> to" edges.
func buildNodes(t *testing.T, ids []string, edges [][2]string) []*node.Node {
	t.Helper()
	g := dag.New()
	for _, id := range ids {
		require.NoError(t, g.AddNode(id, noop))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	nodes, err := g.Build()
	require.NoError(t, err)
	return nodes
}

func newPlan(t *testing.T, ids []string, edges [][2]string, opts ...Option) *Plan {
	t.Helper()
	p, err := New(buildNodes(t, ids, edges), opts...)
	require.NoError(t, err)
	return p
}

func mustNode(t *testing.T, p *Plan, id string) *node.Node {
	t.Helper()
	n, ok := p.Node(id)
	require.True(t, ok, "node %s not in plan", id)
	return n
}

// claim claims the next runnable node and requires it to be id.
func claim(t *testing.T, p *Plan, id string) *node.Node {
	t.Helper()
	n, ok := p.ClaimNext(context.Background(), nil)
	require.True(t, ok, "expected %s to be runnable", id)
	require.Equal(t, id, n.ID())
	return n
}

func states(p *Plan) map[string]node.State {
	out := make(map[string]node.State, p.Len())
	for _, n := range p.Nodes() {
		out[n.ID()] = n.State()
	}
	return out
}
