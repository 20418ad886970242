package storage

import (
	"errors"
)

var (
	// Note: there is another not found error: badger.ErrKeyNotFound. The
	// difference is that badger.ErrKeyNotFound is the error returned by the
	// badger API, while modules in storage/badger and storage/badger/operation
	// both return storage.ErrNotFound for not found errors.
	ErrNotFound = errors.New("key not found")

	ErrAlreadyExists = errors.New("key already exists")

	// ErrDataMismatch is returned when a write would violate an invariant of
	// already stored data.
	ErrDataMismatch = errors.New("data for key is different")
)
