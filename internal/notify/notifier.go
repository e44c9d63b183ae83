package notify

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/executor"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/plan"
)

// Emitter delivers a named event with a JSON-like payload.
type Emitter interface {
	Emit(event string, payload map[string]any) error
}

// Notifier is an executor.Listener that forwards lifecycle events to an
// Emitter.
type Notifier struct {
	mu      sync.Mutex
	emitter Emitter
	runID   string
	now     func() time.Time
}

var _ executor.Listener = (*Notifier)(nil)

// New creates a Notifier for the run identified by runID.
func New(e Emitter, runID string) *Notifier {
	return &Notifier{emitter: e, runID: runID, now: time.Now}
}

// BeforeExecute implements executor.Listener.
func (n *Notifier) BeforeExecute(ctx context.Context, nd *node.Node) {
	n.send(ctx, EventTaskStarted, startedEvent(n.runID, nd, n.now()))
}

// AfterExecute implements executor.Listener.
func (n *Notifier) AfterExecute(ctx context.Context, nd *node.Node, out executor.Outcome) {
	ev, err := finishedEvent(n.runID, nd, out, n.now())
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Dropping unencodable node output from notification.", "error", err)
	}
	n.send(ctx, EventTaskFinished, ev)
}

// RunFinished emits the summary of a finished run.
func (n *Notifier) RunFinished(ctx context.Context, s plan.Summary) {
	n.send(ctx, EventRunFinished, runEvent(n.runID, s, n.now()))
}

func (n *Notifier) send(ctx context.Context, event string, payload any) {
	logger := ctxlog.FromContext(ctx).With("event", event)
	m, err := toMap(payload)
	if err != nil {
		logger.Warn("Failed to encode notification.", "error", err)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.emitter.Emit(event, m); err != nil {
		logger.Warn("Failed to emit notification.", "error", err)
		return
	}
	logger.Debug("Notification emitted.")
}
