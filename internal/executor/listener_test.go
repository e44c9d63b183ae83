package executor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/nodeid"
	"github.com/stretchr/testify/assert"
)

type callLog struct {
	mu    sync.Mutex
	name  string
	calls *[]string
}

func (c *callLog) BeforeExecute(_ context.Context, n *node.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.calls = append(*c.calls, c.name+":before:"+n.ID())
}

func (c *callLog) AfterExecute(_ context.Context, n *node.Node, out Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.calls = append(*c.calls, c.name+":after:"+n.ID()+":"+out.State.String())
}

func TestMultiListener_CallsInOrder(t *testing.T) {
	var calls []string
	l := MultiListener{&callLog{name: "one", calls: &calls}, NopListener{}, &callLog{name: "two", calls: &calls}}
	n := node.New(nodeid.MustParse("a"), nil)

	l.BeforeExecute(context.Background(), n)
	l.AfterExecute(context.Background(), n, Outcome{State: node.Complete})

	assert.Equal(t, []string{
		"one:before:a",
		"two:before:a",
		"one:after:a:complete",
		"two:after:a:complete",
	}, calls)
}

func TestLogListener(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger.With("nodeID", "build.app"))
	n := node.New(nodeid.MustParse("build.app"), nil)

	var l LogListener
	l.BeforeExecute(ctx, n)
	l.AfterExecute(ctx, n, Outcome{State: node.Complete, Duration: time.Millisecond})
	l.AfterExecute(ctx, n, Outcome{State: node.Failed, Err: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, `msg="Executing node." nodeID=build.app`)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.Equal(t, 1, strings.Count(line, "nodeID="), line)
	}
	assert.Contains(t, out, `msg="Node execution succeeded."`)
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "state=failed")
}

func TestErrors(t *testing.T) {
	fault := &SchedulingFaultError{Node: "b", Predecessor: "a", State: "executing"}
	assert.Equal(t, "scheduling fault: node b was claimed while predecessor a is executing", fault.Error())

	cause := errors.New("inner")
	p := &PanicError{Node: "a", Value: cause}
	assert.ErrorIs(t, p, cause)
	assert.Contains(t, p.Error(), "node a panicked: inner")
	assert.Nil(t, (&PanicError{Node: "a", Value: "text"}).Unwrap())
}
