package plasma

import (
	"fmt"
)

// VerifiedPosition is the cursor of the last fully checked transition.
// TransitionIndex counts the transitions verified within BlockNumber, so it
// doubles as the index of the next unverified transition. The cursor is
// monotonically non-decreasing and has exactly one writer, the guard.
type VerifiedPosition struct {
	BlockNumber     uint64
	TransitionIndex uint64
}

// Before returns true when p orders strictly before other.
func (p VerifiedPosition) Before(other VerifiedPosition) bool {
	if p.BlockNumber != other.BlockNumber {
		return p.BlockNumber < other.BlockNumber
	}
	return p.TransitionIndex < other.TransitionIndex
}

func (p VerifiedPosition) String() string {
	return fmt.Sprintf("%d/%d", p.BlockNumber, p.TransitionIndex)
}
