package mock

import (
	"sync"

	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/storage"
)

// Checkpoints is an in-memory checkpoint store. SetErr, when set, is returned
// by SetPosition, which lets tests exercise persistence failures.
type Checkpoints struct {
	sync.Mutex
	pos    *plasma.VerifiedPosition
	SetErr error
}

var _ storage.Checkpoints = (*Checkpoints)(nil)

// NewCheckpoints creates an empty in-memory checkpoint store.
func NewCheckpoints() *Checkpoints {
	return &Checkpoints{}
}

// WithPosition presets the stored cursor.
func (c *Checkpoints) WithPosition(pos plasma.VerifiedPosition) *Checkpoints {
	c.pos = &pos
	return c
}

func (c *Checkpoints) Position() (plasma.VerifiedPosition, error) {
	c.Lock()
	defer c.Unlock()
	if c.pos == nil {
		return plasma.VerifiedPosition{}, storage.ErrNotFound
	}
	return *c.pos, nil
}

func (c *Checkpoints) InitPosition(pos plasma.VerifiedPosition) error {
	c.Lock()
	defer c.Unlock()
	if c.pos != nil {
		return storage.ErrAlreadyExists
	}
	c.pos = &pos
	return nil
}

func (c *Checkpoints) SetPosition(pos plasma.VerifiedPosition) error {
	c.Lock()
	defer c.Unlock()
	if c.SetErr != nil {
		return c.SetErr
	}
	if c.pos == nil {
		return storage.ErrNotFound
	}
	c.pos = &pos
	return nil
}
