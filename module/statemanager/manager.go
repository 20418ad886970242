// Package statemanager implements the state manager: the single place where
// range fragmentation of verified history is reconciled into one logical
// answer per transaction.
package statemanager

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/plasmanet/plasma-go/engine"
	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/module"
	"github.com/plasmanet/plasma-go/plugins"
	"github.com/plasmanet/plasma-go/storage"
)

// fragment pairs a verified state update with its intersection against the
// transaction's target range.
type fragment struct {
	overlap plasma.Range
	update  *plasma.VerifiedStateUpdate
}

// Manager recomputes the outcome of a single transaction from verified
// history. It only reads from the state store, which is what keeps recomputed
// results reproducible across honest verifiers.
type Manager struct {
	log      zerolog.Logger
	updates  storage.StateUpdates
	registry plugins.Registry
}

var _ module.StateManager = (*Manager)(nil)

func New(log zerolog.Logger, updates storage.StateUpdates, registry plugins.Registry) *Manager {
	return &Manager{
		log:      log.With().Str("component", "state_manager").Logger(),
		updates:  updates,
		registry: registry,
	}
}

// ExecuteTransaction queries the store for all verified state updates
// overlapping the transaction's range, recomputes each fragment's outcome
// through the predicate that currently owns it, and merges the candidates
// into one result.
//
// A single transaction must have one deterministic outcome no matter how
// history fragmented the range; disagreement between candidates means the
// local reconciliation logic failed and is returned as an
// OutcomeDisagreementError, never as an ordinary rejection.
func (m *Manager) ExecuteTransaction(ctx context.Context, tx *plasma.Transaction) (*plasma.TransactionResult, error) {

	if tx == nil || !tx.Range.Valid() {
		return nil, engine.NewInvalidInputError("transaction range is malformed")
	}

	stored, err := m.updates.ByRange(tx.Range)
	if err != nil {
		return nil, fmt.Errorf("could not query verified state for %s: %w", tx.Range, err)
	}

	// restrict each stored update to the target range; fragments that do not
	// overlap contribute nothing and are silently excluded
	fragments := make([]fragment, 0, len(stored))
	for _, update := range stored {
		overlap, ok := update.Range.Intersect(tx.Range)
		if !ok {
			continue
		}
		if update.StateUpdate == nil {
			return nil, fmt.Errorf("verified state over %s carries no state update", update.Range)
		}
		if tx.TargetBlock <= update.VerifiedBlock {
			return nil, engine.NewInvalidInputErrorf(
				"target block %d does not advance past verified block %d of fragment %s",
				tx.TargetBlock, update.VerifiedBlock, update.Range)
		}
		fragments = append(fragments, fragment{overlap: overlap, update: update})
	}

	// no verified history to transition is not an error
	if len(fragments) == 0 {
		return &plasma.TransactionResult{}, nil
	}

	// store order is not assumed reliable
	sort.Slice(fragments, func(i, j int) bool {
		return fragments[i].overlap.Start.Cmp(fragments[j].overlap.Start) < 0
	})

	// recompute each fragment's outcome through the predicate that currently
	// owns it, not the one the transaction claims; a transaction may be
	// crossing ownership boundaries. Fragments cover disjoint sub-ranges, so
	// the invocations are independent and run concurrently; collecting by
	// index keeps the later comparison deterministic.
	candidates := make([]*plasma.StateUpdate, len(fragments))
	g, gctx := errgroup.WithContext(ctx)
	for i, frag := range fragments {
		i, frag := i, frag
		g.Go(func() error {
			predicate := frag.update.StateUpdate.PredicateAddress
			capability, err := m.registry.Get(predicate)
			if err != nil {
				return fmt.Errorf("could not resolve predicate %s for %s: %w", predicate, frag.overlap, err)
			}
			candidate, err := capability.ExecuteStateTransition(gctx, frag.update.StateUpdate, tx)
			if err != nil {
				return fmt.Errorf("predicate %s could not transition %s: %w", predicate, frag.overlap, err)
			}
			if candidate == nil {
				return fmt.Errorf("predicate %s returned no state update for %s", predicate, frag.overlap)
			}
			candidates[i] = candidate
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		return nil, err
	}

	// consistency invariant: all candidates must agree structurally
	merged := candidates[0]
	for i := 1; i < len(candidates); i++ {
		if !merged.Equal(candidates[i]) {
			return nil, NewOutcomeDisagreementError(
				fragments[0].overlap, merged,
				fragments[i].overlap, candidates[i],
				fragments[0].update.StateUpdate.PredicateAddress != fragments[i].update.StateUpdate.PredicateAddress,
			)
		}
	}

	validRanges := make([]plasma.Range, 0, len(fragments))
	for _, frag := range fragments {
		validRanges = append(validRanges, frag.overlap)
	}

	m.log.Debug().
		Str("range", tx.Range.String()).
		Uint64("target_block", tx.TargetBlock).
		Int("fragments", len(fragments)).
		Msg("transaction recomputed against verified history")

	return &plasma.TransactionResult{
		StateUpdate: merged,
		ValidRanges: validRanges,
	}, nil
}
