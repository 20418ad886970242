// Package mock provides in-memory stand-ins for the storage interfaces, made
// for testing the components that consume them.
package mock

import (
	"sync"

	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/storage"
)

// StateUpdates is an in-memory state store. Err, when set, is returned by
// every query, which lets tests exercise collaborator failures.
type StateUpdates struct {
	sync.Mutex
	updates []*plasma.VerifiedStateUpdate
	Err     error
}

var _ storage.StateUpdates = (*StateUpdates)(nil)

// NewStateUpdates creates an in-memory store holding the given updates.
func NewStateUpdates(updates ...*plasma.VerifiedStateUpdate) *StateUpdates {
	return &StateUpdates{
		updates: updates,
	}
}

func (s *StateUpdates) ByRange(r plasma.Range) ([]*plasma.VerifiedStateUpdate, error) {
	s.Lock()
	defer s.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var overlapping []*plasma.VerifiedStateUpdate
	for _, update := range s.updates {
		if _, ok := update.Range.Intersect(r); ok {
			overlapping = append(overlapping, update)
		}
	}
	return overlapping, nil
}

func (s *StateUpdates) Store(update *plasma.VerifiedStateUpdate) error {
	s.Lock()
	defer s.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.updates = append(s.updates, update)
	return nil
}
