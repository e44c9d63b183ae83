package plan

import (
	"context"

	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/nodestore"
)

// mirror writes the observable result of n into s.
func mirror(ctx context.Context, s nodestore.Store, n *node.Node) error {
	id := *n.Address()
	switch n.State() {
	case node.Complete:
		if err := s.SetOutput(ctx, id, n.Output()); err != nil {
			return err
		}
	case node.Failed, node.Skipped:
		if err := s.SetError(ctx, id, n.Err()); err != nil {
			return err
		}
	}
	return s.SetState(ctx, id, n.State())
}
