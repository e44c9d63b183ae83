package plan

import (
	"github.com/specialistvlad/taskgrid/internal/nodestore"
	"github.com/specialistvlad/taskgrid/internal/scheduler"
)

// Option configures a Plan.
type Option func(*Plan)

// WithContinueOnFailure controls what a failure does to unrelated work. When
// enabled, only the failed node's descendants are skipped; otherwise the
// whole run is aborted.
func WithContinueOnFailure(enabled bool) Option {
	return func(p *Plan) {
		p.continueOnFailure = enabled
	}
}

// WithSelector sets the strategy used to pick among runnable nodes.
func WithSelector(s scheduler.Selector) Option {
	return func(p *Plan) {
		if s != nil {
			p.selector = s
		}
	}
}

// WithStore mirrors every state change into s.
func WithStore(s nodestore.Store) Option {
	return func(p *Plan) {
		p.store = s
	}
}
