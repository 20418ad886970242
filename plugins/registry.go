// Package plugins holds the predicate capability contract and the registry
// that resolves predicate addresses to their implementations. Predicate
// semantics live entirely inside the plugins; the verification core only
// dispatches to them.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/plasmanet/plasma-go/model/plasma"
)

// ErrUnknownPredicate is returned when no capability is registered for a
// predicate address.
var ErrUnknownPredicate = errors.New("unknown predicate address")

// PredicateCapability is the contract every predicate plugin implements: it
// computes the state update that results from applying a transaction to a
// prior state update over one sub-range. Rejection of the transaction under
// the predicate's own rules must be signalled as an engine.InvalidInputError,
// so the guard can tell fraud apart from an internal fault.
type PredicateCapability interface {
	ExecuteStateTransition(ctx context.Context, prev *plasma.StateUpdate, tx *plasma.Transaction) (*plasma.StateUpdate, error)
}

// Registry resolves predicate addresses to their capabilities.
type Registry interface {

	// Get returns the capability registered for the given predicate address,
	// or an error wrapping ErrUnknownPredicate.
	Get(addr plasma.Address) (PredicateCapability, error)

	// Load fetches the capability for the given address from an external
	// location and registers it. It is used by node setup, not by the
	// verification hot path.
	Load(ctx context.Context, addr plasma.Address, location string) (PredicateCapability, error)
}

// Loader instantiates a capability from an external location on behalf of a
// registry.
type Loader func(ctx context.Context, addr plasma.Address, location string) (PredicateCapability, error)

// CapabilityRegistry is an in-memory registry of predicate capabilities.
type CapabilityRegistry struct {
	mu           sync.RWMutex
	capabilities map[plasma.Address]PredicateCapability
	loader       Loader
}

var _ Registry = (*CapabilityRegistry)(nil)

// NewRegistry creates an empty registry. The loader may be nil, in which case
// Load always fails and capabilities must be registered directly.
func NewRegistry(loader Loader) *CapabilityRegistry {
	return &CapabilityRegistry{
		capabilities: make(map[plasma.Address]PredicateCapability),
		loader:       loader,
	}
}

// Register binds a capability to a predicate address, replacing any previous
// binding.
func (r *CapabilityRegistry) Register(addr plasma.Address, capability PredicateCapability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[addr] = capability
}

func (r *CapabilityRegistry) Get(addr plasma.Address) (PredicateCapability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	capability, exists := r.capabilities[addr]
	if !exists {
		return nil, fmt.Errorf("no capability for %s: %w", addr, ErrUnknownPredicate)
	}
	return capability, nil
}

func (r *CapabilityRegistry) Load(ctx context.Context, addr plasma.Address, location string) (PredicateCapability, error) {
	if capability, err := r.Get(addr); err == nil {
		return capability, nil
	}
	if r.loader == nil {
		return nil, fmt.Errorf("no loader configured for %s: %w", addr, ErrUnknownPredicate)
	}
	capability, err := r.loader(ctx, addr, location)
	if err != nil {
		return nil, fmt.Errorf("could not load capability for %s from %s: %w", addr, location, err)
	}
	r.Register(addr, capability)
	return capability, nil
}
