// Package guard implements the verification guard: the engine that drives
// the state manager over the stream of chain-submitted transitions, compares
// recomputed outcomes against claimed ones, and owns the verified-position
// cursor.
package guard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/plasmanet/plasma-go/engine"
	"github.com/plasmanet/plasma-go/model/encoding"
	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/module"
	"github.com/plasmanet/plasma-go/storage"
)

// Engine checks transitions and blocks strictly in order; the fraud-proof
// guarantee depends on having verified every prior step, so the guard never
// skips ahead. It is the single writer of the verified position, and the
// cursor only moves after a transition or block has fully passed.
type Engine struct {
	log         zerolog.Logger
	metrics     module.VerificationMetrics
	manager     module.StateManager
	updates     storage.StateUpdates
	checkpoints storage.Checkpoints

	mu       sync.RWMutex
	position plasma.VerifiedPosition
}

// New creates a guard engine, resuming the cursor from the persisted
// checkpoint. A fresh checkpoint store is initialized to the zero position.
func New(
	log zerolog.Logger,
	metrics module.VerificationMetrics,
	manager module.StateManager,
	updates storage.StateUpdates,
	checkpoints storage.Checkpoints,
) (*Engine, error) {

	e := &Engine{
		log:         log.With().Str("engine", "guard").Logger(),
		metrics:     metrics,
		manager:     manager,
		updates:     updates,
		checkpoints: checkpoints,
	}

	pos, err := checkpoints.Position()
	if errors.Is(err, storage.ErrNotFound) {
		err = checkpoints.InitPosition(plasma.VerifiedPosition{})
		if err != nil {
			return nil, fmt.Errorf("could not initialize checkpoint: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("could not load checkpoint: %w", err)
	} else {
		e.position = pos
	}

	return e, nil
}

// CurrentPosition returns the cursor of the last fully checked transition.
func (e *Engine) CurrentPosition() plasma.VerifiedPosition {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.position
}

// TransactionFromTransition reconstructs the internal transaction model from
// a wire-level transition and the state snapshots it references as pre-image
// evidence. The snapshots must fully cover the transition's range; gaps fail
// with an InsufficientSnapshotsError, which calls for more data rather than
// a verdict.
func (e *Engine) TransactionFromTransition(transition *plasma.Transition, snapshots []*plasma.StateSnapshot) (*plasma.Transaction, error) {
	return transactionFromTransition(transition, snapshots, true)
}

// transactionFromTransition converts a transition into a transaction,
// validating it against the given snapshots. When requireCoverage is unset,
// coverage gaps are tolerated; the comparison step later surfaces them as
// uncovered ranges instead.
func transactionFromTransition(transition *plasma.Transition, snapshots []*plasma.StateSnapshot, requireCoverage bool) (*plasma.Transaction, error) {

	if !transition.Range.Valid() {
		return nil, engine.NewInvalidInputError("transition range is malformed")
	}
	if transition.NewState == nil {
		return nil, engine.NewInvalidInputErrorf("transition over %s claims no resulting state", transition.Range)
	}

	covered := make([]plasma.Range, 0, len(snapshots))
	for _, snapshot := range snapshots {
		overlap, ok := snapshot.Range.Intersect(transition.Range)
		if !ok {
			continue
		}
		if snapshot.StateUpdate == nil || !snapshot.StateUpdate.Range.Valid() || !snapshot.StateUpdate.Range.Contains(snapshot.Range) {
			return nil, engine.NewInvalidInputErrorf("snapshot over %s is inconsistent with its state update", snapshot.Range)
		}
		if transition.TargetBlock <= snapshot.VerifiedBlock {
			return nil, engine.NewInvalidInputErrorf(
				"transition target block %d does not advance past verified block %d over %s",
				transition.TargetBlock, snapshot.VerifiedBlock, snapshot.Range)
		}
		covered = append(covered, overlap)
	}
	sort.Slice(covered, func(i, j int) bool {
		return covered[i].Start.Cmp(covered[j].Start) < 0
	})

	// every snapshot range the transition references must be backed by the
	// provided snapshots
	for _, ref := range transition.SnapshotRanges {
		if !ref.Valid() {
			return nil, engine.NewInvalidInputErrorf("transition references malformed snapshot range")
		}
		overlap, ok := ref.Intersect(transition.Range)
		if !ok {
			continue
		}
		gaps := overlap.Difference(covered)
		if len(gaps) > 0 {
			return nil, NewInsufficientSnapshotsError(gaps)
		}
	}

	if requireCoverage {
		gaps := transition.Range.Difference(covered)
		if len(gaps) > 0 {
			return nil, NewInsufficientSnapshotsError(gaps)
		}
	}

	return &plasma.Transaction{
		Range:            transition.Range.Copy(),
		PredicateAddress: transition.NewState.PredicateAddress,
		Witness:          transition.Witness,
		TargetBlock:      transition.TargetBlock,
	}, nil
}

// CheckNextEncodedTransition decodes and checks the next transition in the
// stream. A valid verdict advances the cursor by one transition; an invalid
// verdict leaves it untouched and carries the mismatch as evidence. A decode
// failure or any fault of the local recomputation is returned as an error,
// never as a verdict.
//
// The transition index stamped on any evidence is derived from the cursor:
// the caller must feed the stream in order, starting at the checkpointed
// position.
func (e *Engine) CheckNextEncodedTransition(ctx context.Context, encodedTransition []byte) (plasma.FraudCheckResult, error) {

	transition, err := encoding.DecodeTransition(encodedTransition)
	if err != nil {
		e.metrics.OnCheckFailed()
		return plasma.FraudCheckResult{}, fmt.Errorf("could not decode transition: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// a transition targeting a block past the cursor is the first of its block
	index := int(e.position.TransitionIndex)
	if transition.TargetBlock > e.position.BlockNumber {
		index = 0
	}

	result, err := e.checkTransition(ctx, transition, transition.TargetBlock, index)
	if err != nil {
		e.metrics.OnCheckFailed()
		return plasma.FraudCheckResult{}, err
	}

	if result.Verdict == plasma.VerdictValid {
		next := e.position
		if transition.TargetBlock > next.BlockNumber {
			next = plasma.VerifiedPosition{BlockNumber: transition.TargetBlock, TransitionIndex: 1}
		} else {
			next.TransitionIndex++
		}
		err = e.advance(next)
		if err != nil {
			return plasma.FraudCheckResult{}, err
		}
	}

	return result, nil
}

// CheckNextBlock checks every transition of the block in order. The first
// invalid transition or fault short-circuits the block, leaving the cursor at
// its pre-block value; only when the whole block passes does the cursor
// advance to the block boundary.
func (e *Engine) CheckNextBlock(ctx context.Context, block *plasma.RollupBlock) (plasma.FraudCheckResult, error) {

	if block == nil || len(block.Transitions) == 0 {
		return plasma.FraudCheckResult{}, fmt.Errorf("rollup block carries no transitions")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if block.Number < e.position.BlockNumber {
		return plasma.FraudCheckResult{}, fmt.Errorf("block %d is behind verified position %s", block.Number, e.position)
	}

	for i, transition := range block.Transitions {
		result, err := e.checkTransition(ctx, transition, block.Number, i)
		if err != nil {
			e.metrics.OnCheckFailed()
			return plasma.FraudCheckResult{}, fmt.Errorf("check of transition %d in block %d failed: %w", i, block.Number, err)
		}
		if result.Verdict == plasma.VerdictInvalid {
			// no partial acceptance of a bad block
			return result, nil
		}
	}

	boundary := plasma.VerifiedPosition{
		BlockNumber:     block.Number,
		TransitionIndex: uint64(len(block.Transitions)),
	}
	err := e.advance(boundary)
	if err != nil {
		return plasma.FraudCheckResult{}, err
	}

	e.metrics.OnBlockVerified(block.Number)
	e.log.Info().
		Uint64("block", block.Number).
		Int("transitions", len(block.Transitions)).
		Msg("block fully verified")

	return plasma.ValidResult(), nil
}

// checkTransition recomputes one transition's outcome against verified
// history and compares it to the claim. Transaction-shaped failures become
// invalid verdicts; anything that makes the local recomputation untrustworthy
// is returned as an error, because submitting a fraud proof on the strength
// of our own broken logic would accuse the wrong party.
func (e *Engine) checkTransition(ctx context.Context, transition *plasma.Transition, blockNumber uint64, index int) (plasma.FraudCheckResult, error) {

	snapshots, err := e.localSnapshots(transition.Range)
	if err != nil {
		return plasma.FraudCheckResult{}, fmt.Errorf("could not gather local snapshots: %w", err)
	}

	// snapshots come from our own verified history here, so coverage gaps are
	// not missing data; they surface as uncovered ranges in the comparison
	tx, err := transactionFromTransition(transition, snapshots, false)
	if err != nil {
		if engine.IsInvalidInputError(err) {
			e.logInvalid(transition, blockNumber, index, err)
			return plasma.InvalidResult(&plasma.FraudEvidence{
				BlockNumber:     blockNumber,
				TransitionIndex: index,
				Claimed:         transition.NewState,
			}), nil
		}
		return plasma.FraudCheckResult{}, err
	}

	result, err := e.manager.ExecuteTransaction(ctx, tx)
	if err != nil {
		if engine.IsInvalidInputError(err) {
			e.logInvalid(transition, blockNumber, index, err)
			return plasma.InvalidResult(&plasma.FraudEvidence{
				BlockNumber:     blockNumber,
				TransitionIndex: index,
				Claimed:         transition.NewState,
			}), nil
		}
		return plasma.FraudCheckResult{}, fmt.Errorf("could not recompute transition outcome: %w", err)
	}

	uncovered := transition.Range.Difference(result.ValidRanges)
	if result.StateUpdate == nil || !result.StateUpdate.Equal(transition.NewState) || len(uncovered) > 0 {
		e.metrics.OnFraudDetected()
		e.log.Warn().
			Uint64("block", blockNumber).
			Int("transition", index).
			Str("range", transition.Range.String()).
			Msg("claimed outcome disagrees with recomputed state")
		return plasma.InvalidResult(&plasma.FraudEvidence{
			BlockNumber:     blockNumber,
			TransitionIndex: index,
			Claimed:         transition.NewState,
			Recomputed:      result.StateUpdate,
			UncoveredRanges: uncovered,
		}), nil
	}

	e.metrics.OnTransitionVerified()
	return plasma.ValidResult(), nil
}

// localSnapshots converts the verified history overlapping the given range
// into snapshots restricted to it.
func (e *Engine) localSnapshots(r plasma.Range) ([]*plasma.StateSnapshot, error) {
	if !r.Valid() {
		return nil, nil
	}
	updates, err := e.updates.ByRange(r)
	if err != nil {
		return nil, fmt.Errorf("could not query verified state for %s: %w", r, err)
	}
	snapshots := make([]*plasma.StateSnapshot, 0, len(updates))
	for _, update := range updates {
		overlap, ok := update.Range.Intersect(r)
		if !ok {
			continue
		}
		snapshots = append(snapshots, &plasma.StateSnapshot{
			Range:         overlap,
			VerifiedBlock: update.VerifiedBlock,
			StateUpdate:   update.StateUpdate,
		})
	}
	return snapshots, nil
}

// advance moves the cursor forward and writes it through to the checkpoint
// store. The cursor never moves backwards.
func (e *Engine) advance(next plasma.VerifiedPosition) error {
	if next.Before(e.position) {
		return fmt.Errorf("cursor regression from %s to %s", e.position, next)
	}
	err := e.checkpoints.SetPosition(next)
	if err != nil {
		return fmt.Errorf("could not persist verified position: %w", err)
	}
	e.position = next
	return nil
}

func (e *Engine) logInvalid(transition *plasma.Transition, blockNumber uint64, index int, err error) {
	e.metrics.OnFraudDetected()
	e.log.Warn().
		Err(err).
		Uint64("block", blockNumber).
		Int("transition", index).
		Str("range", transition.Range.String()).
		Msg("transition rejected as invalid")
}
