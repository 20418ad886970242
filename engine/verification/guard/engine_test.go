package guard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmanet/plasma-go/engine"
	"github.com/plasmanet/plasma-go/engine/verification/guard"
	"github.com/plasmanet/plasma-go/model/encoding"
	"github.com/plasmanet/plasma-go/model/plasma"
	"github.com/plasmanet/plasma-go/module/metrics"
	"github.com/plasmanet/plasma-go/module/statemanager"
	"github.com/plasmanet/plasma-go/plugins"
	pluginmock "github.com/plasmanet/plasma-go/plugins/mock"
	storagemock "github.com/plasmanet/plasma-go/storage/mock"
	"github.com/plasmanet/plasma-go/utils/unittest"
)

// harness wires a guard over an in-memory store and a single scripted
// predicate owning all stored fragments.
type harness struct {
	engine      *guard.Engine
	updates     *storagemock.StateUpdates
	checkpoints *storagemock.Checkpoints
	capability  *pluginmock.Capability
	predicate   plasma.Address
}

func newHarness(t *testing.T, fragments ...*plasma.VerifiedStateUpdate) *harness {
	predicate := unittest.AddressFixture()
	for _, fragment := range fragments {
		fragment.StateUpdate.PredicateAddress = predicate
	}

	capability := &pluginmock.Capability{}
	registry := plugins.NewRegistry(nil)
	registry.Register(predicate, capability)

	updates := storagemock.NewStateUpdates(fragments...)
	checkpoints := storagemock.NewCheckpoints()
	manager := statemanager.New(unittest.Logger(), updates, registry)

	engine, err := guard.New(unittest.Logger(), metrics.NewNoopCollector(), manager, updates, checkpoints)
	require.NoError(t, err)

	return &harness{
		engine:      engine,
		updates:     updates,
		checkpoints: checkpoints,
		capability:  capability,
		predicate:   predicate,
	}
}

// honestTransition returns a transition whose claim matches what the scripted
// capability will recompute.
func honestTransition(h *harness, r plasma.Range, targetBlock uint64) *plasma.Transition {
	outcome := unittest.StateUpdateFixture(r)
	outcome.PredicateAddress = h.predicate
	h.capability.Result = outcome
	return unittest.TransitionFixture(r, targetBlock, outcome.Copy())
}

func TestNewResumesFromCheckpoint(t *testing.T) {
	t.Run("fresh store initializes to zero", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, plasma.VerifiedPosition{}, h.engine.CurrentPosition())

		pos, err := h.checkpoints.Position()
		require.NoError(t, err)
		assert.Equal(t, plasma.VerifiedPosition{}, pos)
	})

	t.Run("existing checkpoint is resumed", func(t *testing.T) {
		predicate := unittest.AddressFixture()
		registry := plugins.NewRegistry(nil)
		registry.Register(predicate, &pluginmock.Capability{})

		updates := storagemock.NewStateUpdates()
		checkpoints := storagemock.NewCheckpoints().WithPosition(plasma.VerifiedPosition{BlockNumber: 7, TransitionIndex: 3})
		manager := statemanager.New(unittest.Logger(), updates, registry)

		engine, err := guard.New(unittest.Logger(), metrics.NewNoopCollector(), manager, updates, checkpoints)
		require.NoError(t, err)
		assert.Equal(t, plasma.VerifiedPosition{BlockNumber: 7, TransitionIndex: 3}, engine.CurrentPosition())
	})
}

func TestCheckNextEncodedTransitionValid(t *testing.T) {
	r := unittest.RangeFixture(10, 20)
	h := newHarness(t, unittest.VerifiedStateUpdateFixture(r, 10))

	transition := honestTransition(h, r, 11)
	encoded, err := encoding.EncodeTransition(transition)
	require.NoError(t, err)

	result, err := h.engine.CheckNextEncodedTransition(context.Background(), encoded)
	require.NoError(t, err)
	assert.Equal(t, plasma.VerdictValid, result.Verdict)
	assert.Nil(t, result.Evidence)

	// valid transition advances the cursor and persists it
	assert.Equal(t, plasma.VerifiedPosition{BlockNumber: 11, TransitionIndex: 1}, h.engine.CurrentPosition())
	pos, err := h.checkpoints.Position()
	require.NoError(t, err)
	assert.Equal(t, plasma.VerifiedPosition{BlockNumber: 11, TransitionIndex: 1}, pos)
}

func TestCheckNextEncodedTransitionMismatch(t *testing.T) {
	r := unittest.RangeFixture(10, 20)
	h := newHarness(t, unittest.VerifiedStateUpdateFixture(r, 10))

	transition := honestTransition(h, r, 11)
	// the claim names a different owner than the recomputed outcome
	transition.NewState = unittest.StateUpdateFixture(r)

	encoded, err := encoding.EncodeTransition(transition)
	require.NoError(t, err)

	result, err := h.engine.CheckNextEncodedTransition(context.Background(), encoded)
	require.NoError(t, err)
	assert.Equal(t, plasma.VerdictInvalid, result.Verdict)
	require.NotNil(t, result.Evidence)
	assert.True(t, result.Evidence.Claimed.Equal(transition.NewState))
	assert.NotNil(t, result.Evidence.Recomputed)

	// invalid verdict leaves the cursor untouched
	assert.Equal(t, plasma.VerifiedPosition{}, h.engine.CurrentPosition())
}

// A transition targeting a block past the cursor is the first of its block,
// so evidence must name index 0 rather than the cursor's stale index.
func TestCheckNextEncodedTransitionEvidenceIndex(t *testing.T) {
	r := unittest.RangeFixture(10, 20)
	predicate := unittest.AddressFixture()

	fragment := unittest.VerifiedStateUpdateFixture(r, 3)
	fragment.StateUpdate.PredicateAddress = predicate

	outcome := unittest.StateUpdateFixture(r)
	outcome.PredicateAddress = predicate
	capability := &pluginmock.Capability{Result: outcome}
	registry := plugins.NewRegistry(nil)
	registry.Register(predicate, capability)

	updates := storagemock.NewStateUpdates(fragment)
	checkpoints := storagemock.NewCheckpoints().WithPosition(plasma.VerifiedPosition{BlockNumber: 5, TransitionIndex: 3})
	manager := statemanager.New(unittest.Logger(), updates, registry)

	engine, err := guard.New(unittest.Logger(), metrics.NewNoopCollector(), manager, updates, checkpoints)
	require.NoError(t, err)

	// the claim lies about the outcome, so the verdict carries evidence
	transition := unittest.TransitionFixture(r, 6, unittest.StateUpdateFixture(r))
	encoded, err := encoding.EncodeTransition(transition)
	require.NoError(t, err)

	result, err := engine.CheckNextEncodedTransition(context.Background(), encoded)
	require.NoError(t, err)
	assert.Equal(t, plasma.VerdictInvalid, result.Verdict)
	require.NotNil(t, result.Evidence)
	assert.Equal(t, uint64(6), result.Evidence.BlockNumber)
	assert.Equal(t, 0, result.Evidence.TransitionIndex)
}

func TestCheckNextEncodedTransitionUncoveredRange(t *testing.T) {
	// verified history only covers [10, 15) of the claimed [10, 20)
	r := unittest.RangeFixture(10, 15)
	h := newHarness(t, unittest.VerifiedStateUpdateFixture(r, 10))

	transition := honestTransition(h, unittest.RangeFixture(10, 20), 11)
	encoded, err := encoding.EncodeTransition(transition)
	require.NoError(t, err)

	result, err := h.engine.CheckNextEncodedTransition(context.Background(), encoded)
	require.NoError(t, err)
	assert.Equal(t, plasma.VerdictInvalid, result.Verdict)
	require.NotNil(t, result.Evidence)
	require.Len(t, result.Evidence.UncoveredRanges, 1)
	assert.True(t, result.Evidence.UncoveredRanges[0].Equal(unittest.RangeFixture(15, 20)))
}

func TestCheckNextEncodedTransitionDecodeFault(t *testing.T) {
	h := newHarness(t)

	_, err := h.engine.CheckNextEncodedTransition(context.Background(), []byte("garbage"))
	require.Error(t, err)
	assert.Equal(t, plasma.VerifiedPosition{}, h.engine.CurrentPosition())
}

// A local fault of the recomputation propagates as an error, never as an
// invalid verdict: we must not submit a fraud proof on our own broken logic.
func TestCheckNextEncodedTransitionFaultPropagates(t *testing.T) {
	r := unittest.RangeFixture(10, 20)
	h := newHarness(t, unittest.VerifiedStateUpdateFixture(r, 10))

	transition := honestTransition(h, r, 11)
	h.capability.Err = errors.New("predicate runtime crashed")

	encoded, err := encoding.EncodeTransition(transition)
	require.NoError(t, err)

	result, err := h.engine.CheckNextEncodedTransition(context.Background(), encoded)
	require.Error(t, err)
	assert.Equal(t, plasma.FraudCheckResult{}, result)
	assert.Equal(t, plasma.VerifiedPosition{}, h.engine.CurrentPosition())
}

// A predicate's witness rejection is the counterparty's problem and becomes
// an invalid verdict.
func TestCheckNextEncodedTransitionWitnessRejection(t *testing.T) {
	r := unittest.RangeFixture(10, 20)
	h := newHarness(t, unittest.VerifiedStateUpdateFixture(r, 10))

	transition := honestTransition(h, r, 11)
	h.capability.Err = engine.NewInvalidInputError("witness does not satisfy predicate")

	encoded, err := encoding.EncodeTransition(transition)
	require.NoError(t, err)

	result, err := h.engine.CheckNextEncodedTransition(context.Background(), encoded)
	require.NoError(t, err)
	assert.Equal(t, plasma.VerdictInvalid, result.Verdict)
}

func TestCheckNextBlock(t *testing.T) {
	r := unittest.RangeFixture(10, 20)

	t.Run("all transitions valid advances to boundary", func(t *testing.T) {
		h := newHarness(t, unittest.VerifiedStateUpdateFixture(r, 10))
		transition := honestTransition(h, r, 12)

		block := &plasma.RollupBlock{
			Number:      12,
			Transitions: []*plasma.Transition{transition, transition, transition},
		}

		result, err := h.engine.CheckNextBlock(context.Background(), block)
		require.NoError(t, err)
		assert.Equal(t, plasma.VerdictValid, result.Verdict)
		assert.Equal(t, plasma.VerifiedPosition{BlockNumber: 12, TransitionIndex: 3}, h.engine.CurrentPosition())
	})

	t.Run("first invalid transition short-circuits", func(t *testing.T) {
		h := newHarness(t, unittest.VerifiedStateUpdateFixture(r, 10))
		honest := honestTransition(h, r, 12)

		lying := unittest.TransitionFixture(r, 12, unittest.StateUpdateFixture(r))

		block := &plasma.RollupBlock{
			Number:      12,
			Transitions: []*plasma.Transition{honest, lying, honest},
		}

		result, err := h.engine.CheckNextBlock(context.Background(), block)
		require.NoError(t, err)
		assert.Equal(t, plasma.VerdictInvalid, result.Verdict)
		require.NotNil(t, result.Evidence)
		assert.Equal(t, 1, result.Evidence.TransitionIndex)
		assert.Equal(t, uint64(12), result.Evidence.BlockNumber)

		// cursor stays at the pre-block value
		assert.Equal(t, plasma.VerifiedPosition{}, h.engine.CurrentPosition())
	})

	t.Run("fault mid-block halts without advancing", func(t *testing.T) {
		h := newHarness(t, unittest.VerifiedStateUpdateFixture(r, 10))
		transition := honestTransition(h, r, 12)
		h.capability.Err = errors.New("predicate runtime crashed")

		block := &plasma.RollupBlock{
			Number:      12,
			Transitions: []*plasma.Transition{transition},
		}

		_, err := h.engine.CheckNextBlock(context.Background(), block)
		require.Error(t, err)
		assert.Equal(t, plasma.VerifiedPosition{}, h.engine.CurrentPosition())
	})

	t.Run("empty block is a fault", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.engine.CheckNextBlock(context.Background(), &plasma.RollupBlock{Number: 3})
		require.Error(t, err)
	})

	t.Run("block behind the cursor is a fault", func(t *testing.T) {
		h := newHarness(t, unittest.VerifiedStateUpdateFixture(r, 10))
		transition := honestTransition(h, r, 12)

		block := &plasma.RollupBlock{Number: 12, Transitions: []*plasma.Transition{transition}}
		_, err := h.engine.CheckNextBlock(context.Background(), block)
		require.NoError(t, err)

		stale := &plasma.RollupBlock{Number: 11, Transitions: []*plasma.Transition{transition}}
		_, err = h.engine.CheckNextBlock(context.Background(), stale)
		require.Error(t, err)
	})
}

func TestTransactionFromTransition(t *testing.T) {
	r := unittest.RangeFixture(10, 20)
	h := newHarness(t)

	newState := unittest.StateUpdateFixture(r)
	transition := unittest.TransitionFixture(r, 11, newState)

	snapshot := func(sr plasma.Range, block uint64) *plasma.StateSnapshot {
		update := unittest.StateUpdateFixture(sr)
		return &plasma.StateSnapshot{Range: sr, VerifiedBlock: block, StateUpdate: update}
	}

	t.Run("full coverage converts", func(t *testing.T) {
		tx, err := h.engine.TransactionFromTransition(transition, []*plasma.StateSnapshot{
			snapshot(unittest.RangeFixture(10, 15), 10),
			snapshot(unittest.RangeFixture(15, 20), 10),
		})
		require.NoError(t, err)
		assert.True(t, tx.Range.Equal(r))
		assert.Equal(t, newState.PredicateAddress, tx.PredicateAddress)
		assert.Equal(t, transition.Witness, tx.Witness)
		assert.Equal(t, uint64(11), tx.TargetBlock)
	})

	t.Run("coverage gap is a snapshot insufficiency", func(t *testing.T) {
		_, err := h.engine.TransactionFromTransition(transition, []*plasma.StateSnapshot{
			snapshot(unittest.RangeFixture(10, 14), 10),
		})
		require.Error(t, err)
		require.True(t, guard.IsInsufficientSnapshotsError(err))

		var insufficient guard.InsufficientSnapshotsError
		require.ErrorAs(t, err, &insufficient)
		require.Len(t, insufficient.Missing, 1)
		assert.True(t, insufficient.Missing[0].Equal(unittest.RangeFixture(14, 20)))
	})

	t.Run("corrupt snapshot state is invalid input", func(t *testing.T) {
		// the snapshot's own state update carries a zero range; this must
		// surface as an inconsistent snapshot, not crash the conversion
		bad := snapshot(unittest.RangeFixture(10, 20), 10)
		bad.StateUpdate.Range = plasma.Range{}

		_, err := h.engine.TransactionFromTransition(transition, []*plasma.StateSnapshot{bad})
		require.Error(t, err)
		assert.True(t, engine.IsInvalidInputError(err))
	})

	t.Run("stale target block is invalid input", func(t *testing.T) {
		_, err := h.engine.TransactionFromTransition(transition, []*plasma.StateSnapshot{
			snapshot(r, 11),
		})
		require.Error(t, err)
		assert.False(t, guard.IsInsufficientSnapshotsError(err))
	})

	t.Run("malformed range is invalid input", func(t *testing.T) {
		broken := unittest.TransitionFixture(r, 11, newState)
		broken.Range = plasma.Range{}
		_, err := h.engine.TransactionFromTransition(broken, nil)
		require.Error(t, err)
	})
}
