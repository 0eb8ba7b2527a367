// Package reporters holds the built-in build reporters and the registry that
// instantiates them from the configured list.
package reporters

import (
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

// Names of the built-in reporters as used in the configuration.
const (
	LogName     = "log"
	MetricsName = "metrics"
	HistoryName = "history"
)

// Deps holds what the built-in reporters report to.
type Deps struct {
	Logger  ports.Logger
	Metrics ports.Metrics
	State   ports.RunStateStore
}

// New instantiates the reporters named in names, in that order.
func New(names []string, deps Deps) ([]ports.Reporter, error) {
	out := make([]ports.Reporter, 0, len(names))
	for _, name := range names {
		switch name {
		case LogName:
			out = append(out, NewLog(deps.Logger))
		case MetricsName:
			if deps.Metrics == nil {
				return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "metrics reporter needs a metrics recorder"), "reporter", name)
			}
			out = append(out, NewMetrics(deps.Metrics))
		case HistoryName:
			out = append(out, NewHistory(deps.State))
		default:
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown reporter"), "reporter", name)
		}
	}
	return out, nil
}

// Base implements every hook as a no-op. Reporters embed it and override what they observe.
type Base struct{}

// PreBuild implements ports.Reporter.
func (Base) PreBuild(ports.BuildContext) error { return nil }

// PreModule implements ports.Reporter.
func (Base) PreModule(ports.BuildContext, domain.Event) error { return nil }

// PreExecute implements ports.Reporter.
func (Base) PreExecute(ports.BuildContext, domain.Event) error { return nil }

// PostExecute implements ports.Reporter.
func (Base) PostExecute(ports.BuildContext, domain.Event, time.Duration) error { return nil }

// PostModule implements ports.Reporter.
func (Base) PostModule(ports.BuildContext, domain.Event) error { return nil }

// ReportGenerated implements ports.Reporter.
func (Base) ReportGenerated(ports.BuildContext, domain.Event) error { return nil }

// PostBuild implements ports.Reporter.
func (Base) PostBuild(ports.BuildContext, *domain.BuildOutcome) error { return nil }
