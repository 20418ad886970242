package ownership_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmanet/plasma-go/engine"
	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/plugins/ownership"
	"github.com/plasmanet/plasma-go/utils/unittest"
)

func transferFixture(t *testing.T) (*plasma.StateUpdate, *plasma.Transaction, plasma.Address) {
	r := unittest.RangeFixture(0, 100)
	predicate := unittest.AddressFixture()
	owner := unittest.AddressFixture()
	newOwner := unittest.AddressFixture()

	witness, err := ownership.EncodeWitness(&ownership.Witness{
		Authorizer: owner,
		NewOwner:   newOwner,
	})
	require.NoError(t, err)

	prev := ownership.StateUpdate(r, predicate, owner)
	tx := &plasma.Transaction{
		Range:            r,
		PredicateAddress: predicate,
		Witness:          witness,
		TargetBlock:      5,
	}
	return prev, tx, newOwner
}

func TestOwnershipTransfer(t *testing.T) {
	prev, tx, newOwner := transferFixture(t)

	next, err := ownership.New().ExecuteStateTransition(context.Background(), prev, tx)
	require.NoError(t, err)

	assert.True(t, next.Range.Equal(tx.Range))
	assert.Equal(t, prev.PredicateAddress, next.PredicateAddress)
	assert.Equal(t, newOwner.Bytes(), []byte(next.Parameters[ownership.ParamOwner]))
}

func TestOwnershipUnauthorized(t *testing.T) {
	prev, tx, _ := transferFixture(t)

	witness, err := ownership.EncodeWitness(&ownership.Witness{
		Authorizer: unittest.AddressFixture(),
		NewOwner:   unittest.AddressFixture(),
	})
	require.NoError(t, err)
	tx.Witness = witness

	_, err = ownership.New().ExecuteStateTransition(context.Background(), prev, tx)
	require.Error(t, err)
	assert.True(t, engine.IsInvalidInputError(err))
}

func TestOwnershipMalformedWitness(t *testing.T) {
	prev, tx, _ := transferFixture(t)
	tx.Witness = []byte("not cbor")

	_, err := ownership.New().ExecuteStateTransition(context.Background(), prev, tx)
	require.Error(t, err)
	assert.True(t, engine.IsInvalidInputError(err))
}

func TestOwnershipMissingOwnerParam(t *testing.T) {
	prev, tx, _ := transferFixture(t)
	delete(prev.Parameters, ownership.ParamOwner)

	_, err := ownership.New().ExecuteStateTransition(context.Background(), prev, tx)
	require.Error(t, err)
	// a prior state without an owner is corrupt local data, not fraud
	assert.False(t, engine.IsInvalidInputError(err))
}

func TestWitnessRoundTrip(t *testing.T) {
	w := &ownership.Witness{
		Authorizer: unittest.AddressFixture(),
		NewOwner:   unittest.AddressFixture(),
	}
	data, err := ownership.EncodeWitness(w)
	require.NoError(t, err)

	decoded, err := ownership.DecodeWitness(data)
	require.NoError(t, err)
	assert.Equal(t, w, decoded)
}
