package reporters

import (
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
)

// Metrics observes step and module durations.
type Metrics struct {
	Base
	metrics ports.Metrics
}

// NewMetrics creates a Metrics reporter.
func NewMetrics(metrics ports.Metrics) *Metrics {
	return &Metrics{metrics: metrics}
}

// Name implements ports.Reporter.
func (*Metrics) Name() string { return MetricsName }

// PostExecute implements ports.Reporter.
func (r *Metrics) PostExecute(_ ports.BuildContext, ev domain.Event, elapsed time.Duration) error {
	r.metrics.ObserveStep(ev.Module, ev.Step, elapsed)
	return nil
}

// PostBuild implements ports.Reporter.
func (r *Metrics) PostBuild(_ ports.BuildContext, outcome *domain.BuildOutcome) error {
	r.metrics.ObserveModule(outcome.Module, outcome.Result, outcome.Duration)
	return nil
}
