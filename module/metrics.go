package module

// VerificationMetrics encapsulates the metrics collectors for the
// verification guard.
type VerificationMetrics interface {

	// OnTransitionVerified is called once per transition that checks out
	// against recomputed history.
	OnTransitionVerified()

	// OnFraudDetected is called once per transition whose claimed outcome
	// disagrees with the recomputed one.
	OnFraudDetected()

	// OnCheckFailed is called when a check aborts with a local fault rather
	// than a verdict.
	OnCheckFailed()

	// OnBlockVerified is called after a rollup block has been fully verified
	// and the cursor advanced to its boundary.
	OnBlockVerified(blockNumber uint64)
}
