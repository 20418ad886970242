package engine

import (
	"errors"
	"fmt"
)

// InvalidInputError marks an input that fails the recipient's own validity
// rules, as opposed to an internal failure of the recipient. In the fraud
// checking pipeline this is the shape the guard maps to an invalid verdict:
// the counterparty's claim is bad, our machinery is not.
type InvalidInputError struct {
	err error
}

func NewInvalidInputError(msg string) error {
	return NewInvalidInputErrorf(msg)
}

func NewInvalidInputErrorf(msg string, args ...interface{}) error {
	return InvalidInputError{
		err: fmt.Errorf(msg, args...),
	}
}

func (e InvalidInputError) Unwrap() error {
	return e.err
}

func (e InvalidInputError) Error() string {
	return e.err.Error()
}

// IsInvalidInputError returns whether the given error is an InvalidInputError.
func IsInvalidInputError(err error) bool {
	var errInvalidInput InvalidInputError
	return errors.As(err, &errInvalidInput)
}
