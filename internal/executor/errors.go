package executor

import (
	"errors"
	"fmt"
)

// ErrNilPlan is returned by Process when no plan is given.
var ErrNilPlan = errors.New("executor: nil plan")

// SchedulingFaultError is the failure cause recorded when a worker was handed
// a node whose predecessors were not all Complete. The node's work is not
// invoked.
type SchedulingFaultError struct {
	Node string
	// Predecessor is the first predecessor found not Complete.
	Predecessor string
	// State is the state Predecessor was found in.
	State string
}

func (e *SchedulingFaultError) Error() string {
	return fmt.Sprintf("scheduling fault: node %s was claimed while predecessor %s is %s", e.Node, e.Predecessor, e.State)
}

// PanicError is the failure cause recorded when a node's work panics.
type PanicError struct {
	Node  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("node %s panicked: %v", e.Node, e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
