package plan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/taskgrid/internal/inmemorystore"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/nodeid"
	"github.com/specialistvlad/taskgrid/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyPlanIsSettled(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	assert.False(t, p.HasUnfinishedWork())
	n, ok := p.AwaitNext(context.Background(), nil)
	assert.False(t, ok)
	assert.Nil(t, n)
	p.AwaitCompletion()
	assert.True(t, p.Summary().Succeeded())
}

func TestNew_RejectsMalformedTables(t *testing.T) {
	mk := func(id string) *node.Node { return node.New(nodeid.MustParse(id), noop) }

	testCases := []struct {
		name    string
		nodes   func() []*node.Node
		wantMsg string
	}{
		{
			name:    "nil node",
			nodes:   func() []*node.Node { return []*node.Node{nil} },
			wantMsg: "nil node",
		},
		{
			name: "wrong index",
			nodes: func() []*node.Node {
				a := mk("a")
				a.Link(3, nil, nil)
				return []*node.Node{a}
			},
			wantMsg: "has index 3",
		},
		{
			name: "duplicate id",
			nodes: func() []*node.Node {
				a, b := mk("a"), mk("a")
				a.Link(0, nil, nil)
				b.Link(1, nil, nil)
				return []*node.Node{a, b}
			},
			wantMsg: "duplicate node",
		},
		{
			name: "predecessor out of range",
			nodes: func() []*node.Node {
				a := mk("a")
				a.Link(0, []int{7}, nil)
				return []*node.Node{a}
			},
			wantMsg: "out of range",
		},
		{
			name: "one-sided edge",
			nodes: func() []*node.Node {
				a, b := mk("a"), mk("b")
				a.Link(0, nil, nil)
				b.Link(1, []int{0}, nil)
				return []*node.Node{a, b}
			},
			wantMsg: "not the reverse",
		},
		{
			name: "cycle",
			nodes: func() []*node.Node {
				a, b := mk("a"), mk("b")
				a.Link(0, []int{1}, []int{1})
				b.Link(1, []int{0}, []int{0})
				return []*node.Node{a, b}
			},
			wantMsg: "cycle detected",
		},
		{
			name: "node already claimed",
			nodes: func() []*node.Node {
				a := mk("a")
				a.Link(0, nil, nil)
				_ = a.Claim()
				return []*node.Node{a}
			},
			wantMsg: "expected pending",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.nodes())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidGraph)
			assert.ErrorContains(t, err, tc.wantMsg)
		})
	}
}

func TestClaimNext_FollowsDependencies(t *testing.T) {
	ctx := context.Background()
	p := newPlan(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	a := claim(t, p, "a")
	_, ok := p.ClaimNext(ctx, nil)
	assert.False(t, ok, "b must wait for a")
	assert.True(t, p.HasUnfinishedWork())

	require.NoError(t, p.ReportComplete(ctx, a, "out-a"))
	b := claim(t, p, "b")
	require.NoError(t, p.ReportComplete(ctx, b, nil))
	c := claim(t, p, "c")
	require.NoError(t, p.ReportComplete(ctx, c, nil))

	assert.False(t, p.HasUnfinishedWork())
	assert.Equal(t, "out-a", a.Output())
	s := p.Summary()
	assert.Equal(t, 3, s.Counts[node.Complete])
	assert.True(t, s.Succeeded())
	assert.NoError(t, s.Err())
}

func TestClaimNext_WaitsForEveryPredecessor(t *testing.T) {
	ctx := context.Background()
	// a -> c, b -> c
	p := newPlan(t, []string{"a", "b", "c"}, [][2]string{{"a", "c"}, {"b", "c"}})

	a := claim(t, p, "a")
	b := claim(t, p, "b")
	require.NoError(t, p.ReportComplete(ctx, a, nil))
	_, ok := p.ClaimNext(ctx, nil)
	assert.False(t, ok)

	require.NoError(t, p.ReportComplete(ctx, b, nil))
	claim(t, p, "c")
}

func TestClaimNext_NodeIsHandedOutOnce(t *testing.T) {
	p := newPlan(t, []string{"a"}, nil)

	a := claim(t, p, "a")
	assert.Equal(t, node.Executing, a.State())
	_, ok := p.ClaimNext(context.Background(), nil)
	assert.False(t, ok)
}

func TestClaimNext_Filter(t *testing.T) {
	p := newPlan(t, []string{"a", "b"}, nil)
	onlyB := func(n *node.Node) bool { return n.ID() == "b" }

	n, ok := p.ClaimNext(context.Background(), onlyB)
	require.True(t, ok)
	assert.Equal(t, "b", n.ID())
	_, ok = p.ClaimNext(context.Background(), onlyB)
	assert.False(t, ok)
}

func TestClaimNext_UsesSelector(t *testing.T) {
	ids := []string{"a", "long", "long2", "long3"}
	edges := [][2]string{{"long", "long2"}, {"long2", "long3"}}

	t.Run("fifo hands out in runnable order", func(t *testing.T) {
		p := newPlan(t, ids, edges, WithSelector(&scheduler.FIFO{}))
		claim(t, p, "a")
	})

	t.Run("critical-path prefers longer chains", func(t *testing.T) {
		p := newPlan(t, ids, edges, WithSelector(&scheduler.CriticalPath{}))
		claim(t, p, "long")
		claim(t, p, "a")
	})
}

func TestReport_Errors(t *testing.T) {
	ctx := context.Background()
	p := newPlan(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	t.Run("node not executing", func(t *testing.T) {
		b := mustNode(t, p, "b")
		assert.ErrorIs(t, p.ReportComplete(ctx, b, nil), node.ErrIllegalTransition)
		assert.ErrorIs(t, p.ReportFailed(ctx, b, errors.New("x")), node.ErrIllegalTransition)
		assert.Equal(t, node.Pending, b.State())
	})

	t.Run("foreign node", func(t *testing.T) {
		other := newPlan(t, []string{"a"}, nil)
		foreign := claim(t, other, "a")
		assert.ErrorIs(t, p.ReportComplete(ctx, foreign, nil), ErrUnknownNode)
	})

	t.Run("terminal state never changes", func(t *testing.T) {
		a := claim(t, p, "a")
		require.NoError(t, p.ReportComplete(ctx, a, 1))
		assert.ErrorIs(t, p.ReportFailed(ctx, a, errors.New("late")), node.ErrIllegalTransition)
		assert.Equal(t, node.Complete, a.State())
		assert.Equal(t, 1, a.Output())
	})
}

func TestReportFailed_AbortsByDefault(t *testing.T) {
	ctx := context.Background()
	// a -> b, a -> c, b -> e ; d independent
	p := newPlan(t,
		[]string{"a", "b", "c", "d", "e"},
		[][2]string{{"a", "b"}, {"a", "c"}, {"b", "e"}},
	)
	require.False(t, p.ContinueOnFailure())

	a := claim(t, p, "a")
	cause := errors.New("boom")
	require.NoError(t, p.ReportFailed(ctx, a, cause))

	assert.Equal(t, node.Failed, a.State())
	assert.Equal(t, cause, a.Err())
	for _, id := range []string{"b", "c", "e"} {
		n := mustNode(t, p, id)
		assert.Equal(t, node.Skipped, n.State(), id)
		var upstream *UpstreamError
		require.ErrorAs(t, n.Err(), &upstream, id)
		assert.Equal(t, id, upstream.Node)
		assert.Equal(t, "a", upstream.Upstream)
		assert.ErrorIs(t, n.Err(), cause)
	}
	d := mustNode(t, p, "d")
	assert.Equal(t, node.Skipped, d.State())
	assert.ErrorIs(t, d.Err(), ErrAborted)

	assert.False(t, p.HasUnfinishedWork())
	s := p.Summary()
	assert.False(t, s.Succeeded())
	assert.Equal(t, 4, s.Blocked)
	var failure *FailureError
	require.ErrorAs(t, s.Err(), &failure)
	assert.Equal(t, []string{"a"}, failure.Failed)
	assert.ErrorIs(t, s.Err(), cause)
}

func TestReportFailed_AbortLetsExecutingNodesFinish(t *testing.T) {
	ctx := context.Background()
	p := newPlan(t, []string{"a", "b", "c"}, [][2]string{{"b", "c"}})

	a := claim(t, p, "a")
	b := claim(t, p, "b")
	require.NoError(t, p.ReportFailed(ctx, a, errors.New("boom")))

	assert.Equal(t, node.Executing, b.State())
	assert.True(t, p.HasUnfinishedWork())
	require.NoError(t, p.ReportComplete(ctx, b, nil))

	assert.Equal(t, node.Complete, b.State())
	c := mustNode(t, p, "c")
	assert.Equal(t, node.Skipped, c.State())
	assert.ErrorIs(t, c.Err(), ErrAborted)
	assert.False(t, p.HasUnfinishedWork())
}

func TestReportFailed_ContinueOnFailure(t *testing.T) {
	ctx := context.Background()
	// a -> b -> c ; d -> e
	p := newPlan(t,
		[]string{"a", "b", "c", "d", "e"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"d", "e"}},
		WithContinueOnFailure(true),
	)

	a := claim(t, p, "a")
	require.NoError(t, p.ReportFailed(ctx, a, errors.New("boom")))
	assert.Equal(t, node.Skipped, mustNode(t, p, "b").State())
	assert.Equal(t, node.Skipped, mustNode(t, p, "c").State())

	d := claim(t, p, "d")
	require.NoError(t, p.ReportComplete(ctx, d, nil))
	e := claim(t, p, "e")
	require.NoError(t, p.ReportComplete(ctx, e, nil))

	assert.False(t, p.HasUnfinishedWork())
	s := p.Summary()
	assert.Equal(t, 2, s.Counts[node.Complete])
	assert.Equal(t, 1, s.Counts[node.Failed])
	assert.Equal(t, 2, s.Counts[node.Skipped])
}

func TestReportFailed_NilCause(t *testing.T) {
	p := newPlan(t, []string{"a"}, nil)
	a := claim(t, p, "a")
	require.NoError(t, p.ReportFailed(context.Background(), a, nil))
	assert.ErrorIs(t, a.Err(), ErrUnknownFailure)
}

func TestAbandon_NeverAbortsRun(t *testing.T) {
	ctx := context.Background()
	// a -> b -> c ; d independent
	p := newPlan(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}, {"b", "c"}})
	require.False(t, p.ContinueOnFailure())

	a := claim(t, p, "a")
	cause := errors.New("refused")
	require.NoError(t, p.Abandon(ctx, a, cause))

	assert.Equal(t, node.Failed, a.State())
	assert.Equal(t, cause, a.Err())
	for _, id := range []string{"b", "c"} {
		n := mustNode(t, p, id)
		assert.Equal(t, node.Skipped, n.State(), id)
		assert.ErrorIs(t, n.Err(), cause, id)
		assert.NotErrorIs(t, n.Err(), ErrAborted, id)
	}

	d := claim(t, p, "d")
	require.NoError(t, p.ReportComplete(ctx, d, nil))
	assert.False(t, p.HasUnfinishedWork())
	assert.Equal(t, 1, p.Summary().Counts[node.Complete])
}

func TestAbandon_Errors(t *testing.T) {
	ctx := context.Background()
	p := newPlan(t, []string{"a"}, nil)

	a := mustNode(t, p, "a")
	assert.ErrorIs(t, p.Abandon(ctx, a, nil), node.ErrIllegalTransition)

	other := newPlan(t, []string{"a"}, nil)
	foreign := claim(t, other, "a")
	assert.ErrorIs(t, p.Abandon(ctx, foreign, nil), ErrUnknownNode)

	a = claim(t, p, "a")
	require.NoError(t, p.Abandon(ctx, a, nil))
	assert.ErrorIs(t, a.Err(), ErrUnknownFailure)
}

func TestAwaitNext_ReturnsWhenContextIsDone(t *testing.T) {
	p := newPlan(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	claim(t, p, "a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		_, ok := p.AwaitNext(ctx, nil)
		done <- ok
	}()

	select {
	case <-done:
		t.Fatal("AwaitNext returned while work was unfinished")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("AwaitNext ignored the cancelled context")
	}
	assert.True(t, p.HasUnfinishedWork())
	assert.Equal(t, node.Pending, mustNode(t, p, "b").State())
}

func TestAwaitNext_BlocksUntilWorkIsFreed(t *testing.T) {
	ctx := context.Background()
	p := newPlan(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	a := claim(t, p, "a")

	got := make(chan *node.Node, 1)
	go func() {
		n, _ := p.AwaitNext(ctx, nil)
		got <- n
	}()

	select {
	case <-got:
		t.Fatal("AwaitNext returned before b was runnable")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, p.ReportComplete(ctx, a, nil))
	select {
	case n := <-got:
		require.NotNil(t, n)
		assert.Equal(t, "b", n.ID())
	case <-time.After(time.Second):
		t.Fatal("AwaitNext did not wake up")
	}
}

func TestAwaitNext_ReturnsWhenPlanSettles(t *testing.T) {
	ctx := context.Background()
	p := newPlan(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	a := claim(t, p, "a")

	done := make(chan bool, 1)
	go func() {
		_, ok := p.AwaitNext(ctx, nil)
		done <- ok
	}()

	require.NoError(t, p.ReportFailed(ctx, a, errors.New("boom")))
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("AwaitNext did not return after the plan settled")
	}
	p.AwaitCompletion()
}

func TestRestrict(t *testing.T) {
	ctx := context.Background()
	// a -> b -> c ; d -> c ; e independent
	p := newPlan(t,
		[]string{"a", "b", "c", "d", "e"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"d", "c"}},
	)

	selected := p.Restrict(ctx, func(n *node.Node) bool { return n.ID() == "b" })
	require.NotNil(t, selected)

	for _, id := range []string{"a", "b"} {
		assert.True(t, selected(mustNode(t, p, id)), id)
		assert.Equal(t, node.Pending, mustNode(t, p, id).State(), id)
	}
	for _, id := range []string{"c", "d", "e"} {
		n := mustNode(t, p, id)
		assert.False(t, selected(n), id)
		assert.Equal(t, node.Skipped, n.State(), id)
		assert.ErrorIs(t, n.Err(), ErrNotSelected, id)
	}

	a := claim(t, p, "a")
	require.NoError(t, p.ReportComplete(ctx, a, nil))
	b := claim(t, p, "b")
	require.NoError(t, p.ReportComplete(ctx, b, nil))

	assert.False(t, p.HasUnfinishedWork())
	assert.True(t, p.Summary().Succeeded(), "unselected nodes do not count against the run")

	t.Run("nil filter keeps everything", func(t *testing.T) {
		p := newPlan(t, []string{"a"}, nil)
		assert.Nil(t, p.Restrict(ctx, nil))
		assert.Equal(t, node.Pending, mustNode(t, p, "a").State())
	})
}

func TestWithStore_MirrorsTransitions(t *testing.T) {
	ctx := context.Background()
	store := inmemorystore.New()
	p := newPlan(t, []string{"a", "b"}, [][2]string{{"a", "b"}}, WithStore(store))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]node.State{"a": node.Pending, "b": node.Pending}, snap)

	a := claim(t, p, "a")
	state, err := store.GetState(ctx, *a.Address())
	require.NoError(t, err)
	assert.Equal(t, node.Executing, state)

	cause := errors.New("boom")
	require.NoError(t, p.ReportFailed(ctx, a, cause))

	storedErr, err := store.GetError(ctx, *a.Address())
	require.NoError(t, err)
	assert.Equal(t, cause, storedErr)

	b := mustNode(t, p, "b")
	state, err = store.GetState(ctx, *b.Address())
	require.NoError(t, err)
	assert.Equal(t, node.Skipped, state)
}

func TestReadSide(t *testing.T) {
	p := newPlan(t, []string{"a", "b", "c"}, [][2]string{{"a", "c"}, {"b", "c"}})

	assert.Equal(t, 3, p.Len())
	c := mustNode(t, p, "c")
	preds := p.Predecessors(c)
	require.Len(t, preds, 2)
	assert.Equal(t, "a", preds[0].ID())
	assert.Equal(t, "b", preds[1].ID())

	_, ok := p.Node("missing")
	assert.False(t, ok)

	nodes := p.Nodes()
	nodes[0] = nil
	assert.NotNil(t, p.Nodes()[0], "Nodes returns a copy of the table")

	s := p.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 3, s.Counts[node.Pending])
	assert.False(t, s.Succeeded())
}
