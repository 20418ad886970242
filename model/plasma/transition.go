package plasma

// Transition is a wire-level claim submitted to the base chain: the given
// range transitions to NewState at TargetBlock, justified by the witness and
// by snapshots over the referenced ranges.
type Transition struct {
	Range          Range
	TargetBlock    uint64
	Witness        []byte
	NewState       *StateUpdate
	SnapshotRanges []Range
}

// RollupBlock is an ordered, non-empty sequence of transitions committed to
// the base chain as one unit.
type RollupBlock struct {
	Number      uint64
	Transitions []*Transition
}
