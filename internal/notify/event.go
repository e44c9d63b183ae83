package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/specialistvlad/taskgrid/internal/executor"
	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/plan"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Event names.
const (
	EventTaskStarted  = "task_started"
	EventTaskFinished = "task_finished"
	EventRunFinished  = "run_finished"
)

// TaskEvent is the payload of the task events.
type TaskEvent struct {
	RunID      string          `json:"run_id"`
	Node       string          `json:"node"`
	State      string          `json:"state"`
	Time       time.Time       `json:"time"`
	DurationMs int64           `json:"duration_ms,omitempty"`
	Error      string          `json:"error,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
}

// RunEvent is the payload of the run_finished event.
type RunEvent struct {
	RunID     string         `json:"run_id"`
	Time      time.Time      `json:"time"`
	Total     int            `json:"total"`
	Counts    map[string]int `json:"counts"`
	Failed    []string       `json:"failed,omitempty"`
	Blocked   int            `json:"blocked"`
	Succeeded bool           `json:"succeeded"`
}

func startedEvent(runID string, n *node.Node, now time.Time) TaskEvent {
	return TaskEvent{
		RunID: runID,
		Node:  n.ID(),
		State: node.Executing.String(),
		Time:  now,
	}
}

func finishedEvent(runID string, n *node.Node, out executor.Outcome, now time.Time) (TaskEvent, error) {
	ev := TaskEvent{
		RunID:      runID,
		Node:       n.ID(),
		State:      out.State.String(),
		Time:       now,
		DurationMs: out.Duration.Milliseconds(),
	}
	if out.Err != nil {
		ev.Error = out.Err.Error()
	}
	raw, err := encodeOutput(out.Output)
	if err != nil {
		return ev, err
	}
	ev.Output = raw
	return ev, nil
}

func runEvent(runID string, s plan.Summary, now time.Time) RunEvent {
	ev := RunEvent{
		RunID:     runID,
		Time:      now,
		Total:     s.Total,
		Counts:    make(map[string]int, len(s.Counts)),
		Blocked:   s.Blocked,
		Succeeded: s.Succeeded(),
	}
	for state, count := range s.Counts {
		ev.Counts[state.String()] = count
	}
	for _, n := range s.Failed {
		ev.Failed = append(ev.Failed, n.ID())
	}
	return ev
}

// encodeOutput renders a node output as JSON. cty values use the cty JSON
// encoding; nil and null produce no output.
func encodeOutput(v any) (json.RawMessage, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case cty.Value:
		if val.IsNull() || !val.IsWhollyKnown() {
			return nil, nil
		}
		b, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			return nil, fmt.Errorf("encode output: %w", err)
		}
		return b, nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("encode output: %w", err)
		}
		return b, nil
	}
}

// toMap turns a payload into the generic form the Socket.IO encoder sends.
func toMap(payload any) (map[string]any, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
