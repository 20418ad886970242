package plasma

// Verdict is the outcome of checking one transition or block.
type Verdict int

const (
	// VerdictValid indicates the recomputed outcome matches the claim.
	VerdictValid Verdict = iota
	// VerdictInvalid indicates the claim disagrees with the recomputed
	// outcome and the attached evidence supports a challenge.
	VerdictInvalid
)

// String returns the string representation of a verdict.
func (v Verdict) String() string {
	return [...]string{"VALID", "INVALID"}[v]
}

// FraudEvidence captures the mismatch between a claimed and a recomputed
// outcome, pinned to the transition it was observed at.
type FraudEvidence struct {
	BlockNumber     uint64
	TransitionIndex int
	Claimed         *StateUpdate
	Recomputed      *StateUpdate
	UncoveredRanges []Range
}

// FraudCheckResult is the verdict on one transition or block. Evidence is
// only set for invalid verdicts.
type FraudCheckResult struct {
	Verdict  Verdict
	Evidence *FraudEvidence
}

// ValidResult returns a valid verdict.
func ValidResult() FraudCheckResult {
	return FraudCheckResult{Verdict: VerdictValid}
}

// InvalidResult returns an invalid verdict carrying the given evidence.
func InvalidResult(evidence *FraudEvidence) FraudCheckResult {
	return FraudCheckResult{Verdict: VerdictInvalid, Evidence: evidence}
}
