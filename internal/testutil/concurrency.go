package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/taskgrid/internal/handlers"
)

// SleeperModule is a shared, self-contained module for concurrency tests.
// Its "sleeper" handler sleeps and records when each task ran, keyed by the
// task's id argument.
type SleeperModule struct {
	mu             sync.Mutex
	executionTimes map[string]*ExecutionRecord
	sleepDuration  time.Duration
	completionChan chan<- string
}

// NewSleeperModule creates a new sleeper module for testing. completionChan
// may be nil; when set it must be buffered for every task.
func NewSleeperModule(completionChan chan<- string, sleep time.Duration) *SleeperModule {
	return &SleeperModule{
		executionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
		completionChan: completionChan,
	}
}

type sleeperInput struct {
	ID string `cty:"id"`
}

// Register registers the "sleeper" handler.
func (m *SleeperModule) Register(h *handlers.Handlers) {
	h.RegisterHandler("sleeper", handlers.Typed(func(ctx context.Context, input *sleeperInput) (any, error) {
		startTime := time.Now()
		select {
		case <-time.After(m.sleepDuration):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		endTime := time.Now()

		m.mu.Lock()
		m.executionTimes[input.ID] = &ExecutionRecord{Start: startTime, End: endTime}
		m.mu.Unlock()

		if m.completionChan != nil {
			m.completionChan <- input.ID
		}
		return nil, nil
	}))
}

// Record returns the execution record of the task with the given id.
func (m *SleeperModule) Record(id string) (*ExecutionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.executionTimes[id]
	return r, ok
}
