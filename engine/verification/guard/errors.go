package guard

import (
	"errors"
	"fmt"

	"github.com/plasmanet/plasma-go/model/plasma"
)

// InsufficientSnapshotsError indicates that the provided snapshots do not
// cover a transition's claimed range. The check cannot proceed without more
// data; this is not a verdict on the transition itself.
type InsufficientSnapshotsError struct {
	Missing []plasma.Range
}

func NewInsufficientSnapshotsError(missing []plasma.Range) error {
	return InsufficientSnapshotsError{
		Missing: missing,
	}
}

func (e InsufficientSnapshotsError) Error() string {
	return fmt.Sprintf("snapshots leave %d sub-range(s) of the transition uncovered", len(e.Missing))
}

// IsInsufficientSnapshotsError returns whether the given error is an
// InsufficientSnapshotsError.
func IsInsufficientSnapshotsError(err error) bool {
	var errInsufficient InsufficientSnapshotsError
	return errors.As(err, &errInsufficient)
}
