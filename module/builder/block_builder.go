// Package builder implements the peripheral block builder: it accumulates
// transaction results into the pending rollup block for submission and
// performs no verification of its own.
package builder

import (
	"sync"

	"github.com/plasmanet/plasma-go/engine"
	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/module"
)

// BlockBuilder collects transaction results until the pending block is
// sealed.
type BlockBuilder struct {
	mu      sync.Mutex
	pending []*plasma.TransactionResult
}

var _ module.BlockBuilder = (*BlockBuilder)(nil)

func New() *BlockBuilder {
	return &BlockBuilder{}
}

// AddTransactionResult appends a transaction result to the pending block. A
// result without a state update has nothing to submit and is rejected.
func (b *BlockBuilder) AddTransactionResult(result *plasma.TransactionResult) error {
	if result == nil || result.StateUpdate == nil {
		return engine.NewInvalidInputError("transaction result carries no state update")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, result)
	return nil
}

// PendingCount returns the number of results accumulated so far.
func (b *BlockBuilder) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Seal returns the accumulated results in insertion order and resets the
// builder for the next block.
func (b *BlockBuilder) Seal() []*plasma.TransactionResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	sealed := b.pending
	b.pending = nil
	return sealed
}
