package app

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/specialistvlad/taskgrid/internal/builder"
	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/executor"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/nodeid"
	"github.com/specialistvlad/taskgrid/internal/notify"
	"github.com/specialistvlad/taskgrid/internal/session"
)

// ErrNoMatch is returned when an --only address selects no node of the grid.
var ErrNoMatch = errors.New("no task matches the requested address")

// Run loads the grid, builds the dependency graph and executes it. It
// returns an error naming the failed nodes when the run did not succeed.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.NewString()
	ctx, logger := ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "run_id", runID)
	logger.Debug("App.Run method started.")

	a.healthCheckServer(ctx)
	defer a.closeHealthCheckServer(ctx)

	model, err := a.loadGrid(ctx)
	if err != nil {
		return err
	}

	logger.Debug("Building dependency graph from config model...")
	graph, err := builder.New(a.handlers, a.converter).Build(ctx, model)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	logger.Debug("Dependency graph built.", "node_count", graph.Len())

	if graph.Len() == 0 {
		logger.Warn("No nodes found in graph, execution not required.")
		return nil
	}

	filter, err := onlyFilter(a.config.Only, graph.IDs())
	if err != nil {
		return err
	}

	sess, err := a.sessionFactory.NewSession(ctx, graph, session.Options{
		Workers:           a.config.WorkerCount,
		ContinueOnFailure: a.config.ContinueOnFailure,
		Strategy:          a.config.Strategy,
		Filter:            filter,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer sess.Close(ctx)

	exec, err := sess.GetExecutor()
	if err != nil {
		return fmt.Errorf("failed to get executor: %w", err)
	}
	a.current.Store(&runState{runID: runID, session: sess})

	listener := executor.MultiListener{executor.LogListener{}}
	notifier, closeNotifier := a.openNotifier(ctx, runID)
	if notifier != nil {
		listener = append(listener, notifier)
		defer closeNotifier()
	}

	logger.Info("🚀 Starting concurrent execution...", "fingerprint", sess.Fingerprint())
	p := sess.GetPlan()
	if err := exec.Process(ctx, p, listener); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	summary := p.Summary()
	if notifier != nil {
		notifier.RunFinished(ctx, summary)
	}
	logger.Info("🏁 Execution finished.",
		"total", summary.Total,
		"complete", summary.Counts[node.Complete],
		"failed", summary.Counts[node.Failed],
		"skipped", summary.Counts[node.Skipped],
	)

	if err := summary.Err(); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	logger.Debug("App.Run method finished.")
	return nil
}

// openNotifier connects the event notifier when one is configured.
// Notification is best effort, so a failed connection only logs a warning.
func (a *App) openNotifier(ctx context.Context, runID string) (*notify.Notifier, func()) {
	if a.config.NotifyURL == "" {
		return nil, nil
	}
	logger := ctxlog.FromContext(ctx)
	em, err := notify.Dial(ctx, a.config.NotifyURL, a.config.NotifyNamespace, a.config.NotifyTimeout)
	if err != nil {
		logger.Warn("Notifications disabled: could not connect.", "url", a.config.NotifyURL, "error", err)
		return nil, nil
	}
	return notify.New(em, runID), func() { _ = em.Close() }
}

// onlyFilter builds the node filter for the requested addresses. A node is
// selected when its address equals, or lies under, one of them. Every
// address must select at least one of ids.
func onlyFilter(only []string, ids []string) (node.Filter, error) {
	if len(only) == 0 {
		return nil, nil
	}
	addrs := make([]*nodeid.Address, 0, len(ids))
	for _, id := range ids {
		addr, err := nodeid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid node address %q: %w", id, err)
		}
		addrs = append(addrs, addr)
	}

	prefixes := make([]*nodeid.Address, 0, len(only))
	for _, raw := range only {
		prefix, err := nodeid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid node address %q: %w", raw, err)
		}
		if !slices.ContainsFunc(addrs, func(a *nodeid.Address) bool { return a.HasPrefix(prefix) }) {
			return nil, fmt.Errorf("%w: %q", ErrNoMatch, raw)
		}
		prefixes = append(prefixes, prefix)
	}
	return func(n *node.Node) bool {
		for _, p := range prefixes {
			if n.Address().HasPrefix(p) {
				return true
			}
		}
		return false
	}, nil
}
