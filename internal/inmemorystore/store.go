package inmemorystore

import (
	"context"
	"sync"

	"github.com/specialistvlad/taskgrid/internal/node"
	"github.com/specialistvlad/taskgrid/internal/nodeid"
	"github.com/specialistvlad/taskgrid/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
//
// The store maintains three independent sync.Maps keyed by canonical node ID.
// The key space is fixed once the plan seeds it, while values change on
// every transition, which is the access pattern sync.Map is built for.
type Store struct {
	states  sync.Map // Key: node ID string, Value: node.State
	outputs sync.Map // Key: node ID string, Value: any (output data)
	errors  sync.Map // Key: node ID string, Value: error
}

var _ nodestore.Store = (*Store)(nil)

// New creates a new, empty in-memory node state store.
func New() *Store {
	return &Store{}
}

// SetState updates the recorded state of a node.
func (s *Store) SetState(ctx context.Context, id nodeid.Address, state node.State) error {
	s.states.Store(id.String(), state)
	return nil
}

// GetState retrieves the recorded state of a node.
// If a state has not been set, it returns node.Pending.
func (s *Store) GetState(ctx context.Context, id nodeid.Address) (node.State, error) {
	state, ok := s.states.Load(id.String())
	if !ok {
		return node.Pending, nil
	}
	return state.(node.State), nil
}

// SetOutput records the output of a completed node.
func (s *Store) SetOutput(ctx context.Context, id nodeid.Address, output any) error {
	s.outputs.Store(id.String(), output)
	return nil
}

// GetOutput retrieves the recorded output of a completed node.
func (s *Store) GetOutput(ctx context.Context, id nodeid.Address) (any, error) {
	output, ok := s.outputs.Load(id.String())
	if !ok {
		return nil, nil
	}
	return output, nil
}

// SetError records the cause of a failed or skipped node.
func (s *Store) SetError(ctx context.Context, id nodeid.Address, nodeErr error) error {
	s.errors.Store(id.String(), nodeErr)
	return nil
}

// GetError retrieves the recorded cause of a failed or skipped node.
func (s *Store) GetError(ctx context.Context, id nodeid.Address) (error, error) {
	err, ok := s.errors.Load(id.String())
	if !ok {
		return nil, nil
	}
	return err.(error), nil
}

// Snapshot copies every recorded state.
func (s *Store) Snapshot(ctx context.Context) (map[string]node.State, error) {
	out := make(map[string]node.State)
	s.states.Range(func(k, v any) bool {
		out[k.(string)] = v.(node.State)
		return true
	})
	return out, nil
}
