package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmanet/plasma-go/engine"
	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/module/builder"
	"github.com/plasmanet/plasma-go/utils/unittest"
)

func resultFixture(start, end uint64) *plasma.TransactionResult {
	r := unittest.RangeFixture(start, end)
	return &plasma.TransactionResult{
		StateUpdate: unittest.StateUpdateFixture(r),
		ValidRanges: []plasma.Range{r},
	}
}

func TestBlockBuilderSeal(t *testing.T) {
	b := builder.New()
	assert.Equal(t, 0, b.PendingCount())

	first := resultFixture(0, 10)
	second := resultFixture(10, 20)
	require.NoError(t, b.AddTransactionResult(first))
	require.NoError(t, b.AddTransactionResult(second))
	assert.Equal(t, 2, b.PendingCount())

	sealed := b.Seal()
	require.Len(t, sealed, 2)
	assert.Same(t, first, sealed[0])
	assert.Same(t, second, sealed[1])

	// sealing resets the pending block
	assert.Equal(t, 0, b.PendingCount())
	assert.Empty(t, b.Seal())
}

func TestBlockBuilderRejectsEmptyResult(t *testing.T) {
	b := builder.New()

	err := b.AddTransactionResult(nil)
	require.Error(t, err)
	assert.True(t, engine.IsInvalidInputError(err))

	err = b.AddTransactionResult(&plasma.TransactionResult{})
	require.Error(t, err)
	assert.True(t, engine.IsInvalidInputError(err))

	assert.Equal(t, 0, b.PendingCount())
}
