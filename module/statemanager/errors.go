package statemanager

import (
	"errors"
	"fmt"

	"github.com/plasmanet/plasma-go/model/plasma"
)

// OutcomeDisagreementError indicates that two fragments of the same
// transaction recomputed to different outcomes. This is a reconciliation
// failure of the local checker, not evidence of fraud: a fraud proof must
// never be submitted on the strength of it.
type OutcomeDisagreementError struct {
	FirstRange  plasma.Range
	First       *plasma.StateUpdate
	SecondRange plasma.Range
	Second      *plasma.StateUpdate

	// PredicatesDiffer records whether the disagreeing fragments were owned
	// by different predicates. Both shapes are faults; the flag is carried so
	// operators can tell a cross-predicate boundary from a broken predicate.
	PredicatesDiffer bool
}

func NewOutcomeDisagreementError(
	firstRange plasma.Range, first *plasma.StateUpdate,
	secondRange plasma.Range, second *plasma.StateUpdate,
	predicatesDiffer bool,
) error {
	return OutcomeDisagreementError{
		FirstRange:       firstRange,
		First:            first,
		SecondRange:      secondRange,
		Second:           second,
		PredicatesDiffer: predicatesDiffer,
	}
}

func (e OutcomeDisagreementError) Error() string {
	return fmt.Sprintf("recomputed outcomes disagree between %s and %s (predicates differ: %t)",
		e.FirstRange, e.SecondRange, e.PredicatesDiffer)
}

// IsOutcomeDisagreementError returns whether the given error is an
// OutcomeDisagreementError.
func IsOutcomeDisagreementError(err error) bool {
	var errDisagreement OutcomeDisagreementError
	return errors.As(err, &errDisagreement)
}
