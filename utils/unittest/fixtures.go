package unittest

import (
	crand "crypto/rand"
	"math/big"

	"github.com/plasmanet/plasma-go/model/plasma"
)

// RangeFixture returns the range [start, end).
func RangeFixture(start, end uint64) plasma.Range {
	return plasma.NewRange(new(big.Int).SetUint64(start), new(big.Int).SetUint64(end))
}

// AddressFixture returns a random predicate address.
func AddressFixture() plasma.Address {
	var addr plasma.Address
	_, _ = crand.Read(addr[:])
	return addr
}

// BytesFixture returns n random bytes.
func BytesFixture(n int) []byte {
	b := make([]byte, n)
	_, _ = crand.Read(b)
	return b
}

// StateUpdateFixture returns a state update over the given range with a
// random predicate and random parameters.
func StateUpdateFixture(r plasma.Range) *plasma.StateUpdate {
	return &plasma.StateUpdate{
		Range:            r,
		PredicateAddress: AddressFixture(),
		Parameters: plasma.Parameters{
			"owner": BytesFixture(plasma.AddressLength),
		},
	}
}

// VerifiedStateUpdateFixture returns a verified state update over the given
// range as of the given block.
func VerifiedStateUpdateFixture(r plasma.Range, block uint64) *plasma.VerifiedStateUpdate {
	return &plasma.VerifiedStateUpdate{
		Range:         r,
		VerifiedBlock: block,
		StateUpdate:   StateUpdateFixture(r),
	}
}

// TransitionFixture returns a transition claiming the given resulting state
// over the given range.
func TransitionFixture(r plasma.Range, targetBlock uint64, newState *plasma.StateUpdate) *plasma.Transition {
	return &plasma.Transition{
		Range:       r,
		TargetBlock: targetBlock,
		Witness:     BytesFixture(32),
		NewState:    newState,
	}
}
