package testutil

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/taskgrid/internal/dag"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/plan"
	"github.com/stretchr/testify/require"
)

// Graph describes a test graph: the work of every node by ID, and edges as
// {from, to} pairs where to depends on from.
type Graph struct {
	Work  map[string]node.Work
	Edges [][2]string
}

// BuildPlan builds a dag from g and returns a plan over it.
func BuildPlan(t *testing.T, g Graph, opts ...plan.Option) *plan.Plan {
	t.Helper()
	d := dag.New()
	for id, w := range g.Work {
		require.NoError(t, d.AddNode(id, w))
	}
	for _, e := range g.Edges {
		require.NoError(t, d.AddEdge(e[0], e[1]))
	}
	nodes, err := d.Build()
	require.NoError(t, err)
	p, err := plan.New(nodes, opts...)
	require.NoError(t, err)
	return p
}

// Counter is a node.Work that counts its invocations and then returns Err.
type Counter struct {
	calls atomic.Int32
	Sleep time.Duration
	Err   error
	Out   any
}

// Execute implements node.Work.
func (c *Counter) Execute(ctx context.Context) (any, error) {
	c.calls.Add(1)
	if c.Sleep > 0 {
		select {
		case <-time.After(c.Sleep):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Out, nil
}

// Calls returns how many times Execute ran.
func (c *Counter) Calls() int {
	return int(c.calls.Load())
}

// OK returns a Counter that succeeds.
func OK() *Counter {
	return &Counter{}
}

// Failing returns a Counter that fails with msg.
func Failing(msg string) *Counter {
	return &Counter{Err: errors.New(msg)}
}

// Sleeping returns a Counter that succeeds after d.
func Sleeping(d time.Duration) *Counter {
	return &Counter{Sleep: d}
}
