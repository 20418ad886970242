// Package ownership implements the simplest useful predicate: a range is
// owned by one address, and only that address may transition it to a new
// owner.
package ownership

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/plasmanet/plasma-go/engine"
	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/plugins"
)

// ParamOwner is the parameter key carrying the current owner of a range.
const ParamOwner = "owner"

// Witness authorizes the transfer of a range to a new owner. The authorizer
// must match the owner recorded in the prior state update.
type Witness struct {
	Authorizer plasma.Address
	NewOwner   plasma.Address
}

// EncodeWitness serializes a witness for embedding in a transaction.
func EncodeWitness(w *Witness) ([]byte, error) {
	data, err := cbor.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("could not encode witness: %w", err)
	}
	return data, nil
}

// DecodeWitness deserializes a witness from transaction bytes.
func DecodeWitness(data []byte) (*Witness, error) {
	var w Witness
	err := cbor.Unmarshal(data, &w)
	if err != nil {
		return nil, fmt.Errorf("could not decode witness: %w", err)
	}
	return &w, nil
}

// StateUpdate returns the ownership state of a range under the given
// predicate address and owner.
func StateUpdate(r plasma.Range, predicate plasma.Address, owner plasma.Address) *plasma.StateUpdate {
	return &plasma.StateUpdate{
		Range:            r,
		PredicateAddress: predicate,
		Parameters: plasma.Parameters{
			ParamOwner: owner.Bytes(),
		},
	}
}

// Predicate is the ownership-transfer capability.
type Predicate struct{}

var _ plugins.PredicateCapability = (*Predicate)(nil)

func New() *Predicate {
	return &Predicate{}
}

// ExecuteStateTransition transfers the range to the witness's new owner,
// provided the witness is authorized by the current owner. The outcome
// depends only on the prior state and the transaction, so fragments of a
// split range always recompute to the same result.
func (p *Predicate) ExecuteStateTransition(_ context.Context, prev *plasma.StateUpdate, tx *plasma.Transaction) (*plasma.StateUpdate, error) {

	witness, err := DecodeWitness(tx.Witness)
	if err != nil {
		return nil, engine.NewInvalidInputErrorf("malformed ownership witness: %s", err)
	}

	owner, exists := prev.Parameters[ParamOwner]
	if !exists {
		return nil, fmt.Errorf("prior state over %s carries no owner", prev.Range)
	}

	if !bytes.Equal(owner, witness.Authorizer.Bytes()) {
		return nil, engine.NewInvalidInputErrorf("witness authorizer %s is not the owner of %s", witness.Authorizer, prev.Range)
	}

	return &plasma.StateUpdate{
		Range:            tx.Range.Copy(),
		PredicateAddress: prev.PredicateAddress,
		Parameters: plasma.Parameters{
			ParamOwner: witness.NewOwner.Bytes(),
		},
	}, nil
}
