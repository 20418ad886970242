package operation

import (
	"fmt"
	"math/big"

	"github.com/dgraph-io/badger/v2"

	"github.com/plasmanet/plasma-go/model/plasma"
)

func InsertStateUpdate(update *plasma.VerifiedStateUpdate) func(*badger.Txn) error {
	return upsert(makePrefix(codeStateUpdate, update.Range.Start), update)
}

func RetrieveStateUpdate(start *big.Int, update *plasma.VerifiedStateUpdate) func(*badger.Txn) error {
	return retrieve(makePrefix(codeStateUpdate, start), update)
}

// IterateStateUpdates steps through all stored state updates in ascending
// order of range start and hands each to the given callback. Iteration stops
// once a range start at or beyond the given bound is reached; updates are
// keyed by their start, so nothing past the bound can overlap a query range
// ending there.
func IterateStateUpdates(until *big.Int, handle func(update *plasma.VerifiedStateUpdate) error) func(*badger.Txn) error {
	iteration := func() (checkFunc, createFunc, handleFunc) {
		var update plasma.VerifiedStateUpdate
		check := func(key []byte) (bool, error) {
			start, err := startFromKey(key)
			if err != nil {
				return false, err
			}
			if start.Cmp(until) >= 0 {
				return false, errStop
			}
			return true, nil
		}
		create := func() interface{} {
			return &update
		}
		handleEntity := func() error {
			return handle(&update)
		}
		return check, create, handleEntity
	}
	return traverse(makePrefix(codeStateUpdate), iteration)
}

// startFromKey recovers the range start from a state update key.
func startFromKey(key []byte) (*big.Int, error) {
	if len(key) < 2 || len(key) != 2+int(key[1]) {
		return nil, fmt.Errorf("malformed state update key (%x)", key)
	}
	return new(big.Int).SetBytes(key[2:]), nil
}
