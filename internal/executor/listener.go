package executor

import (
	"context"
	"time"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/node"
)

// Outcome describes how an attempted node ended.
type Outcome struct {
	// State is node.Complete or node.Failed.
	State    node.State
	Output   any
	Err      error
	Duration time.Duration
}

// Listener is notified around every node that a worker actually attempts.
// BeforeExecute and AfterExecute are called exactly once per attempt, in that
// order, from the worker goroutine running the node. Skipped nodes are never
// reported. The logger carried by ctx already identifies the node.
// Implementations must be safe for concurrent use.
type Listener interface {
	BeforeExecute(ctx context.Context, n *node.Node)
	AfterExecute(ctx context.Context, n *node.Node, out Outcome)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) BeforeExecute(context.Context, *node.Node)         {}
func (NopListener) AfterExecute(context.Context, *node.Node, Outcome) {}

// MultiListener fans notifications out to several listeners in order.
type MultiListener []Listener

func (m MultiListener) BeforeExecute(ctx context.Context, n *node.Node) {
	for _, l := range m {
		l.BeforeExecute(ctx, n)
	}
}

func (m MultiListener) AfterExecute(ctx context.Context, n *node.Node, out Outcome) {
	for _, l := range m {
		l.AfterExecute(ctx, n, out)
	}
}

// LogListener writes a log line for every notification using the logger
// carried by the context.
type LogListener struct{}

func (LogListener) BeforeExecute(ctx context.Context, n *node.Node) {
	ctxlog.FromContext(ctx).Info("Executing node.")
}

func (LogListener) AfterExecute(ctx context.Context, n *node.Node, out Outcome) {
	logger := ctxlog.FromContext(ctx).With("state", out.State.String(), "duration", out.Duration)
	if out.Err != nil {
		logger.Error("Node execution failed.", "error", out.Err)
		return
	}
	logger.Info("Node execution succeeded.")
}
