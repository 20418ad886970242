package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/plasmanet/plasma-go/model/plasma"
)

func InsertPosition(pos plasma.VerifiedPosition) func(*badger.Txn) error {
	return insert(makePrefix(codeCheckpoint), pos)
}

func UpdatePosition(pos plasma.VerifiedPosition) func(*badger.Txn) error {
	return update(makePrefix(codeCheckpoint), pos)
}

func RetrievePosition(pos *plasma.VerifiedPosition) func(*badger.Txn) error {
	return retrieve(makePrefix(codeCheckpoint), pos)
}
