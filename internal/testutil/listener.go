package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/taskgrid/internal/executor"
	"github.com/specialistvlad/taskgrid/internal/node"
)

// RecordingListener is an executor.Listener that records every notification
// and tracks how many nodes were executing at once.
type RecordingListener struct {
	mu sync.Mutex

	before   map[string]int
	after    map[string]int
	outcomes map[string]executor.Outcome
	records  map[string]*ExecutionRecord
	started  []string
	problems []string

	inFlight int
	peak     int
}

// NewRecordingListener returns an empty RecordingListener.
func NewRecordingListener() *RecordingListener {
	return &RecordingListener{
		before:   make(map[string]int),
		after:    make(map[string]int),
		outcomes: make(map[string]executor.Outcome),
		records:  make(map[string]*ExecutionRecord),
	}
}

var _ executor.Listener = (*RecordingListener)(nil)

func (r *RecordingListener) BeforeExecute(_ context.Context, n *node.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := n.ID()
	if n.State() != node.Executing {
		r.problems = append(r.problems, fmt.Sprintf("before %s: node is %s", id, n.State()))
	}
	r.before[id]++
	r.started = append(r.started, id)
	r.records[id] = &ExecutionRecord{Start: time.Now()}
	r.inFlight++
	if r.inFlight > r.peak {
		r.peak = r.inFlight
	}
}

func (r *RecordingListener) AfterExecute(_ context.Context, n *node.Node, out executor.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := n.ID()
	if r.before[id] != r.after[id]+1 {
		r.problems = append(r.problems, fmt.Sprintf("after %s without matching before", id))
	}
	r.after[id]++
	r.outcomes[id] = out
	if rec, ok := r.records[id]; ok {
		rec.End = time.Now()
	}
	r.inFlight--
}

// BeforeCount returns how many times BeforeExecute fired for id.
func (r *RecordingListener) BeforeCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.before[id]
}

// AfterCount returns how many times AfterExecute fired for id.
func (r *RecordingListener) AfterCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.after[id]
}

// Outcome returns the last outcome reported for id.
func (r *RecordingListener) Outcome(id string) (executor.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out, ok := r.outcomes[id]
	return out, ok
}

// Record returns the execution window observed for id.
func (r *RecordingListener) Record(id string) (*ExecutionRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	return rec, ok
}

// Started returns node IDs in the order BeforeExecute fired.
func (r *RecordingListener) Started() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.started...)
}

// Peak returns the highest number of nodes seen executing at once.
func (r *RecordingListener) Peak() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.peak
}

// Problems lists protocol violations seen, such as an after-notification
// with no matching before-notification.
func (r *RecordingListener) Problems() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.problems...)
}
