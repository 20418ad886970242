package module

import (
	"context"

	"github.com/plasmanet/plasma-go/model/plasma"
)

// StateManager executes a single transaction against verified history and
// reconciles the recomputed outcome across range fragments. Implementations
// never mutate the state store; execution is a pure projection of the store
// contents and the transaction.
type StateManager interface {

	// ExecuteTransaction recomputes the outcome of the given transaction. A
	// result with a nil state update means no verified history overlaps the
	// transaction's range. Transaction-shaped failures are returned as
	// engine.InvalidInputError; anything else is a local fault.
	ExecuteTransaction(ctx context.Context, tx *plasma.Transaction) (*plasma.TransactionResult, error)
}
