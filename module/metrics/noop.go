package metrics

import (
	"github.com/plasmanet/plasma-go/module"
)

// NoopCollector discards all metrics; it stands in wherever a collector is
// required but not wanted.
type NoopCollector struct{}

var _ module.VerificationMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) OnTransitionVerified()              {}
func (nc *NoopCollector) OnFraudDetected()                   {}
func (nc *NoopCollector) OnCheckFailed()                     {}
func (nc *NoopCollector) OnBlockVerified(blockNumber uint64) {}
