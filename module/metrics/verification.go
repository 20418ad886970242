package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/plasmanet/plasma-go/module"
)

const (
	namespaceVerification = "plasma"
	subsystemGuard        = "verification"
)

// VerificationCollector tracks the progress and outcomes of the verification
// guard.
type VerificationCollector struct {
	transitionsVerified prometheus.Counter
	fraudDetected       prometheus.Counter
	checksFailed        prometheus.Counter
	blocksVerified      prometheus.Counter
	lastVerifiedBlock   prometheus.Gauge
}

var _ module.VerificationMetrics = (*VerificationCollector)(nil)

func NewVerificationCollector(registerer prometheus.Registerer) *VerificationCollector {

	transitionsVerified := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceVerification,
		Subsystem: subsystemGuard,
		Name:      "transitions_verified_total",
		Help:      "total number of transitions whose claims match the recomputed outcome",
	})

	fraudDetected := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceVerification,
		Subsystem: subsystemGuard,
		Name:      "fraud_detected_total",
		Help:      "total number of transitions flagged as fraudulent",
	})

	checksFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceVerification,
		Subsystem: subsystemGuard,
		Name:      "checks_failed_total",
		Help:      "total number of checks aborted by a local fault",
	})

	blocksVerified := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceVerification,
		Subsystem: subsystemGuard,
		Name:      "blocks_verified_total",
		Help:      "total number of fully verified rollup blocks",
	})

	lastVerifiedBlock := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceVerification,
		Subsystem: subsystemGuard,
		Name:      "last_verified_block",
		Help:      "number of the last fully verified rollup block",
	})

	registerer.MustRegister(
		transitionsVerified,
		fraudDetected,
		checksFailed,
		blocksVerified,
		lastVerifiedBlock,
	)

	return &VerificationCollector{
		transitionsVerified: transitionsVerified,
		fraudDetected:       fraudDetected,
		checksFailed:        checksFailed,
		blocksVerified:      blocksVerified,
		lastVerifiedBlock:   lastVerifiedBlock,
	}
}

func (vc *VerificationCollector) OnTransitionVerified() {
	vc.transitionsVerified.Inc()
}

func (vc *VerificationCollector) OnFraudDetected() {
	vc.fraudDetected.Inc()
}

func (vc *VerificationCollector) OnCheckFailed() {
	vc.checksFailed.Inc()
}

func (vc *VerificationCollector) OnBlockVerified(blockNumber uint64) {
	vc.blocksVerified.Inc()
	vc.lastVerifiedBlock.Set(float64(blockNumber))
}
