package plasma

import (
	"fmt"
	"math/big"
)

// Range is a half-open interval [Start, End) over the non-negative integer
// domain that addresses all plasma state. Bounds are arbitrary precision, as
// the domain is chain-address-sized.
type Range struct {
	Start *big.Int
	End   *big.Int
}

// NewRange constructs a range from the given bounds. The bounds are copied.
func NewRange(start, end *big.Int) Range {
	return Range{
		Start: new(big.Int).Set(start),
		End:   new(big.Int).Set(end),
	}
}

// Valid checks the range invariant: both bounds set, non-negative start,
// and Start < End.
func (r Range) Valid() bool {
	if r.Start == nil || r.End == nil {
		return false
	}
	return r.Start.Sign() >= 0 && r.Start.Cmp(r.End) < 0
}

// Equal returns true when both bounds match.
func (r Range) Equal(other Range) bool {
	if r.Start == nil || r.End == nil || other.Start == nil || other.End == nil {
		return false
	}
	return r.Start.Cmp(other.Start) == 0 && r.End.Cmp(other.End) == 0
}

// Contains returns true when other lies entirely within r.
func (r Range) Contains(other Range) bool {
	return r.Start.Cmp(other.Start) <= 0 && r.End.Cmp(other.End) >= 0
}

// Intersect returns the overlap of r and other. The second return value is
// false when the two ranges are disjoint; adjacency does not count as
// overlap, since the intervals are half-open.
func (r Range) Intersect(other Range) (Range, bool) {
	start := maxBig(r.Start, other.Start)
	end := minBig(r.End, other.End)
	if start.Cmp(end) >= 0 {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Difference returns the sub-ranges of r left uncovered by the given ranges.
// The covered ranges must be sorted ascending by start.
func (r Range) Difference(covered []Range) []Range {
	var gaps []Range
	cursor := new(big.Int).Set(r.Start)
	for _, c := range covered {
		if c.End.Cmp(cursor) <= 0 || c.Start.Cmp(r.End) >= 0 {
			continue
		}
		if c.Start.Cmp(cursor) > 0 {
			gaps = append(gaps, Range{
				Start: new(big.Int).Set(cursor),
				End:   minBig(c.Start, r.End),
			})
		}
		if c.End.Cmp(cursor) > 0 {
			cursor.Set(c.End)
		}
		if cursor.Cmp(r.End) >= 0 {
			return gaps
		}
	}
	if cursor.Cmp(r.End) < 0 {
		gaps = append(gaps, Range{
			Start: cursor,
			End:   new(big.Int).Set(r.End),
		})
	}
	return gaps
}

// Copy returns a deep copy of the range.
func (r Range) Copy() Range {
	return NewRange(r.Start, r.End)
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End)
}

func maxBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
