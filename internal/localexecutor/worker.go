package localexecutor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/executor"
	"github.com/specialistvlad/taskgrid/internal/node"
)

var errNoWork = errors.New("node has no work attached")

// worker is the core processing loop for a single concurrent worker. It
// returns when the plan has no unfinished work left or waitCtx is done. Work
// runs under ctx, which waitCtx does not follow.
func (e *Executor) worker(ctx, waitCtx context.Context, p executor.Plan, l executor.Listener, filter node.Filter, workerID int) error {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)
	logger.Debug("Worker started.")
	waitCtx = ctxlog.WithLogger(waitCtx, logger)

	for {
		n, ok := p.AwaitNext(waitCtx, filter)
		if !ok {
			logger.Debug("Worker finished.")
			return nil
		}

		nodeCtx := ctxlog.WithLogger(ctx, logger.With("nodeID", n.ID()))
		if err := e.execute(nodeCtx, p, l, n); err != nil {
			logger.Error("Plan rejected node report.", "node", n.ID(), "error", err)
			return fmt.Errorf("worker %d: %w", workerID, err)
		}
	}
}

// execute runs one claimed node and reports its outcome to the plan.
func (e *Executor) execute(ctx context.Context, p executor.Plan, l executor.Listener, n *node.Node) error {
	logger := ctxlog.FromContext(ctx)

	for _, pred := range p.Predecessors(n) {
		if st := pred.State(); st != node.Complete {
			fault := &executor.SchedulingFaultError{Node: n.ID(), Predecessor: pred.ID(), State: st.String()}
			logger.Error("Scheduling fault: dependency not complete.", "predecessor", pred.ID(), "error", fault)
			return p.Abandon(ctx, n, fault)
		}
	}

	logger.Debug("Worker picked up node for execution.")
	out := attempt(ctx, l, n)

	if out.State == node.Failed {
		return p.ReportFailed(ctx, n, out.Err)
	}
	return p.ReportComplete(ctx, n, out.Output)
}

// attempt invokes the node's work between the listener's notifications. A
// panic in the work or in BeforeExecute becomes a failed outcome, and
// AfterExecute fires in every case.
func attempt(ctx context.Context, l executor.Listener, n *node.Node) (out executor.Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = executor.Outcome{
				State: node.Failed,
				Err:   &executor.PanicError{Node: n.ID(), Value: r, Stack: debug.Stack()},
			}
		}
		out.Duration = time.Since(start)
		notifyAfter(ctx, l, n, out)
	}()

	l.BeforeExecute(ctx, n)

	work := n.Work()
	if work == nil {
		return executor.Outcome{State: node.Failed, Err: errNoWork}
	}
	output, err := work.Execute(ctx)
	if err != nil {
		return executor.Outcome{State: node.Failed, Err: err}
	}
	return executor.Outcome{State: node.Complete, Output: output}
}

func notifyAfter(ctx context.Context, l executor.Listener, n *node.Node, out executor.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Listener panicked after node execution.", "panic", r)
		}
	}()
	l.AfterExecute(ctx, n, out)
}
