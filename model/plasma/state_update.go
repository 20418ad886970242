package plasma

import (
	"bytes"
)

// Parameters is the opaque payload of a state update. The core never
// interprets it; predicates do. Equality is structural, which is what makes
// the cross-fragment consistency check meaningful.
type Parameters map[string][]byte

// Equal compares two parameter maps structurally.
func (p Parameters) Equal(other Parameters) bool {
	if len(p) != len(other) {
		return false
	}
	for key, value := range p {
		otherValue, exists := other[key]
		if !exists || !bytes.Equal(value, otherValue) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the parameter map.
func (p Parameters) Copy() Parameters {
	if p == nil {
		return nil
	}
	dup := make(Parameters, len(p))
	for key, value := range p {
		dup[key] = append([]byte(nil), value...)
	}
	return dup
}

// StateUpdate is a claim of ownership and content over a range: the given
// predicate governs the range with the given parameters.
type StateUpdate struct {
	Range            Range
	PredicateAddress Address
	Parameters       Parameters
}

// Equal compares the predicate address and the parameters structurally. The
// range is deliberately excluded: two fragments of a split range carry the
// same logical state, and the consistency invariant compares exactly that.
func (su *StateUpdate) Equal(other *StateUpdate) bool {
	if su == nil || other == nil {
		return su == other
	}
	return su.PredicateAddress == other.PredicateAddress &&
		su.Parameters.Equal(other.Parameters)
}

// Copy returns a deep copy of the state update.
func (su *StateUpdate) Copy() *StateUpdate {
	if su == nil {
		return nil
	}
	return &StateUpdate{
		Range:            su.Range.Copy(),
		PredicateAddress: su.PredicateAddress,
		Parameters:       su.Parameters.Copy(),
	}
}

// VerifiedStateUpdate is a state update previously confirmed valid as of a
// block. The state store is its only writer.
type VerifiedStateUpdate struct {
	Range         Range
	VerifiedBlock uint64
	StateUpdate   *StateUpdate
}

// StateSnapshot is pre-image evidence accompanying a transition: the verified
// state over a portion of the transition's range as of a block.
type StateSnapshot struct {
	Range         Range
	VerifiedBlock uint64
	StateUpdate   *StateUpdate
}
