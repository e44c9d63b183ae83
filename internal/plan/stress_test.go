package plan

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/taskgrid/internal/dag"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomDAG returns IDs and edges of a random DAG. Edges only go from a
// lower to a higher ordinal, which keeps the graph acyclic.
func randomDAG(seed uint64, size int, density float64) ([]string, [][2]string) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ids := make([]string, size)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%03d", i)
	}
	var edges [][2]string
	for i := 0; i < size; i++ {
		for j := i + 1; j < size; j++ {
			if rng.Float64() < density {
				edges = append(edges, [2]string{ids[i], ids[j]})
			}
		}
	}
	return ids, edges
}

// drain runs workers against p until it settles. Each claimed node runs fn.
func drain(t *testing.T, p *Plan, workers int, fn func(n *node.Node) error) {
	t.Helper()
	ctx := context.Background()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				n, ok := p.AwaitNext(ctx, nil)
				if !ok {
					return
				}
				if err := fn(n); err != nil {
					assert.NoError(t, p.ReportFailed(ctx, n, err))
					continue
				}
				assert.NoError(t, p.ReportComplete(ctx, n, n.ID()))
			}
		}()
	}
	wg.Wait()
	p.AwaitCompletion()
}

func TestStress_AtMostOneClaimant(t *testing.T) {
	for _, workers := range []int{1, 4, 32} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			ids, edges := randomDAG(uint64(workers), 120, 0.05)
			p := newPlan(t, ids, edges, WithContinueOnFailure(true))

			claims := make(map[string]*atomic.Int32, len(ids))
			for _, id := range ids {
				claims[id] = &atomic.Int32{}
			}
			var inFlight, peak atomic.Int32

			drain(t, p, workers, func(n *node.Node) error {
				c := claims[n.ID()].Add(1)
				assert.Equal(t, int32(1), c, "node %s claimed more than once", n.ID())

				cur := inFlight.Add(1)
				for {
					old := peak.Load()
					if cur <= old || peak.CompareAndSwap(old, cur) {
						break
					}
				}
				for _, pred := range p.Predecessors(n) {
					assert.Equal(t, node.Complete, pred.State(), "%s ran before %s completed", n.ID(), pred.ID())
				}
				time.Sleep(time.Duration(rand.IntN(200)) * time.Microsecond)
				inFlight.Add(-1)
				return nil
			})

			assert.False(t, p.HasUnfinishedWork())
			assert.LessOrEqual(t, peak.Load(), int32(workers))
			for _, n := range p.Nodes() {
				assert.Equal(t, node.Complete, n.State(), n.ID())
				assert.Equal(t, int32(1), claims[n.ID()].Load(), n.ID())
			}
		})
	}
}

func TestStress_EveryNodeEndsTerminal(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		for _, continueOnFailure := range []bool{false, true} {
			name := fmt.Sprintf("seed=%d/continue=%t", seed, continueOnFailure)
			t.Run(name, func(t *testing.T) {
				ids, edges := randomDAG(seed, 60, 0.08)
				p := newPlan(t, ids, edges, WithContinueOnFailure(continueOnFailure))
				var skippedRan atomic.Bool

				drain(t, p, 8, func(n *node.Node) error {
					if n.State() != node.Executing {
						skippedRan.Store(true)
					}
					if n.Index()%7 == 3 {
						return errors.New("planned failure")
					}
					return nil
				})

				assert.False(t, skippedRan.Load())
				assert.False(t, p.HasUnfinishedWork())
				for _, n := range p.Nodes() {
					assert.True(t, n.State().IsTerminal(), "%s ended %s", n.ID(), n.State())
				}
			})
		}
	}
}

// Two isomorphic graphs assembled in different orders settle identically.
func TestStress_OrderIndependence(t *testing.T) {
	ids, edges := randomDAG(42, 80, 0.06)
	failing := map[string]bool{"n005": true, "n031": true, "n060": true}

	run := func(ids []string, edges [][2]string) map[string]node.State {
		g := dag.New()
		for _, id := range ids {
			require.NoError(t, g.AddNode(id, noop))
		}
		for _, e := range edges {
			require.NoError(t, g.AddEdge(e[0], e[1]))
		}
		nodes, err := g.Build()
		require.NoError(t, err)
		p, err := New(nodes, WithContinueOnFailure(true))
		require.NoError(t, err)

		drain(t, p, 6, func(n *node.Node) error {
			if failing[n.ID()] {
				return errors.New("planned failure")
			}
			return nil
		})
		return states(p)
	}

	rng := rand.New(rand.NewPCG(7, 11))
	shuffledIDs := append([]string(nil), ids...)
	rng.Shuffle(len(shuffledIDs), func(i, j int) { shuffledIDs[i], shuffledIDs[j] = shuffledIDs[j], shuffledIDs[i] })
	shuffledEdges := append([][2]string(nil), edges...)
	rng.Shuffle(len(shuffledEdges), func(i, j int) { shuffledEdges[i], shuffledEdges[j] = shuffledEdges[j], shuffledEdges[i] })

	assert.Equal(t, run(ids, edges), run(shuffledIDs, shuffledEdges))
}
