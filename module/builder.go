package module

import (
	"github.com/plasmanet/plasma-go/model/plasma"
)

// BlockBuilder accumulates transaction results into a rollup block for
// submission to the base chain. It consumes the outputs of the state manager
// and implements no verification logic of its own.
type BlockBuilder interface {

	// AddTransactionResult appends a transaction result to the pending block.
	AddTransactionResult(result *plasma.TransactionResult) error
}
