package plasma

// Transaction claims that a range should transition to a new state update at
// the target block. The witness is opaque to the core; each predicate
// interprets it under its own rules.
type Transaction struct {
	Range            Range
	PredicateAddress Address
	Witness          []byte
	TargetBlock      uint64
}

// TransactionResult is the outcome of executing one transaction against
// verified history. StateUpdate is nil when no verified history overlaps the
// transaction's range; ValidRanges lists the recomputed sub-ranges in
// ascending order.
type TransactionResult struct {
	StateUpdate *StateUpdate
	ValidRanges []Range
}
