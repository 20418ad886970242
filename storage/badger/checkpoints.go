package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/storage/badger/operation"
)

// Checkpoints persists the guard's verified-position cursor.
type Checkpoints struct {
	db *badger.DB
}

func NewCheckpoints(db *badger.DB) *Checkpoints {
	return &Checkpoints{
		db: db,
	}
}

func (c *Checkpoints) Position() (plasma.VerifiedPosition, error) {
	var pos plasma.VerifiedPosition
	err := c.db.View(operation.RetrievePosition(&pos))
	if err != nil {
		return plasma.VerifiedPosition{}, fmt.Errorf("could not retrieve position: %w", err)
	}
	return pos, nil
}

func (c *Checkpoints) InitPosition(pos plasma.VerifiedPosition) error {
	err := c.db.Update(operation.InsertPosition(pos))
	if err != nil {
		return fmt.Errorf("could not insert position: %w", err)
	}
	return nil
}

func (c *Checkpoints) SetPosition(pos plasma.VerifiedPosition) error {
	err := c.db.Update(operation.UpdatePosition(pos))
	if err != nil {
		return fmt.Errorf("could not update position: %w", err)
	}
	return nil
}
