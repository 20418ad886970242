package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/storage"
	"github.com/plasmanet/plasma-go/storage/badger/operation"
)

// StateUpdates implements a range-indexed store of verified state updates on
// top of badger.
type StateUpdates struct {
	db *badger.DB
}

func NewStateUpdates(db *badger.DB) *StateUpdates {
	return &StateUpdates{
		db: db,
	}
}

// ByRange returns all stored state updates whose range intersects the given
// range.
func (s *StateUpdates) ByRange(r plasma.Range) ([]*plasma.VerifiedStateUpdate, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("malformed query range %s", r)
	}

	var updates []*plasma.VerifiedStateUpdate
	err := s.db.View(operation.IterateStateUpdates(r.End, func(update *plasma.VerifiedStateUpdate) error {
		if _, ok := update.Range.Intersect(r); !ok {
			return nil
		}
		updates = append(updates, update)
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("could not iterate state updates: %w", err)
	}

	return updates, nil
}

// Store persists a verified state update keyed by its range start. Rewriting
// a stored start with a different range, or with a lower verified block
// number, would destroy verified history and fails with ErrDataMismatch.
func (s *StateUpdates) Store(update *plasma.VerifiedStateUpdate) error {
	if update == nil || !update.Range.Valid() {
		return fmt.Errorf("malformed state update")
	}
	if update.StateUpdate == nil {
		return fmt.Errorf("state update carries no state")
	}

	return s.db.Update(func(tx *badger.Txn) error {
		var existing plasma.VerifiedStateUpdate
		err := operation.RetrieveStateUpdate(update.Range.Start, &existing)(tx)
		if err == nil {
			if !existing.Range.Equal(update.Range) {
				return fmt.Errorf("range mismatch for start %s: stored %s, new %s: %w",
					update.Range.Start, existing.Range, update.Range, storage.ErrDataMismatch)
			}
			if existing.VerifiedBlock > update.VerifiedBlock {
				return fmt.Errorf("verified block regression from %d to %d for %s: %w",
					existing.VerifiedBlock, update.VerifiedBlock, update.Range, storage.ErrDataMismatch)
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("could not check existing state update: %w", err)
		}
		return operation.InsertStateUpdate(update)(tx)
	})
}
