package node

// State represents the execution state of a node in the graph.
type State int32

const (
	// Pending indicates the node is waiting to be claimed.
	Pending State = iota
	// Executing indicates exactly one worker owns the node and is running it.
	Executing
	// Complete indicates the node's work succeeded.
	Complete
	// Failed indicates the node's work reported a failure.
	Failed
	// Skipped indicates the node was never run.
	Skipped
)

var stateNames = [...]string{
	Pending:   "pending",
	Executing: "executing",
	Complete:  "complete",
	Failed:    "failed",
	Skipped:   "skipped",
}

// String returns the lower-case name of the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// IsTerminal reports whether no further transition is permitted from s.
func (s State) IsTerminal() bool {
	return s == Complete || s == Failed || s == Skipped
}

// AllStates lists every state in lifecycle order.
func AllStates() []State {
	return []State{Pending, Executing, Complete, Failed, Skipped}
}
