// Package mock provides a scripted predicate capability for testing the
// state manager and the guard.
package mock

import (
	"context"
	"sync"

	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/plugins"
)

// Capability returns a scripted outcome and records the prior states it was
// invoked with. When ExecuteFn is set it takes precedence; otherwise Result
// and Err are returned as configured.
type Capability struct {
	sync.Mutex
	Result    *plasma.StateUpdate
	Err       error
	ExecuteFn func(ctx context.Context, prev *plasma.StateUpdate, tx *plasma.Transaction) (*plasma.StateUpdate, error)
	Calls     []*plasma.StateUpdate
}

var _ plugins.PredicateCapability = (*Capability)(nil)

func (c *Capability) ExecuteStateTransition(ctx context.Context, prev *plasma.StateUpdate, tx *plasma.Transaction) (*plasma.StateUpdate, error) {
	c.Lock()
	c.Calls = append(c.Calls, prev)
	c.Unlock()
	if c.ExecuteFn != nil {
		return c.ExecuteFn(ctx, prev, tx)
	}
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Result.Copy(), nil
}

// CallCount returns the number of invocations seen so far.
func (c *Capability) CallCount() int {
	c.Lock()
	defer c.Unlock()
	return len(c.Calls)
}
