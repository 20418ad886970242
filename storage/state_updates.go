package storage

import (
	"github.com/plasmanet/plasma-go/model/plasma"
)

// StateUpdates represents persistent storage for verified state updates. The
// verification pipeline is the only writer; the state manager only reads.
type StateUpdates interface {

	// ByRange returns all verified state updates whose range intersects the
	// given range. No particular order is guaranteed.
	ByRange(r plasma.Range) ([]*plasma.VerifiedStateUpdate, error)

	// Store persists a verified state update, keyed by its range start. For a
	// fixed range the verified block number must never decrease; an attempt
	// to regress it returns ErrDataMismatch.
	Store(update *plasma.VerifiedStateUpdate) error
}
