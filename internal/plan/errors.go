package plan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph is wrapped by every error New returns for a malformed
	// node table.
	ErrInvalidGraph = errors.New("invalid node table")
	// ErrUnknownNode is returned when a node that does not belong to the plan
	// is reported.
	ErrUnknownNode = errors.New("node does not belong to this plan")
	// ErrAborted is the skip cause of nodes that never ran because another
	// node failed and the plan does not continue on failure.
	ErrAborted = errors.New("run aborted after an earlier failure")
	// ErrNotSelected is the skip cause of nodes outside the requested subgraph.
	ErrNotSelected = errors.New("not selected for this run")
	// ErrUnknownFailure stands in for a nil failure cause.
	ErrUnknownFailure = errors.New("failed without a cause")
)

// UpstreamError is the skip cause of a node whose ancestor did not complete.
type UpstreamError struct {
	// Node is the ID of the skipped node.
	Node string
	// Upstream is the ID of the failed node that started the cascade.
	Upstream string
	// Cause is the failure cause recorded on Upstream.
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("node %s skipped: upstream node %s failed", e.Node, e.Upstream)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// FailureError summarises the failed nodes of a settled plan.
type FailureError struct {
	// Failed lists the IDs of the Failed nodes in table order.
	Failed []string
	// Cause is the failure cause of the first entry in Failed.
	Cause error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("%d node(s) failed [%s]: %v", len(e.Failed), strings.Join(e.Failed, ", "), e.Cause)
}

func (e *FailureError) Unwrap() error {
	return e.Cause
}
