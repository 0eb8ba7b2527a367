package reporters

import (
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
)

// Log writes a structured line per lifecycle event.
type Log struct {
	Base
	logger ports.Logger
}

// NewLog creates a Log reporter.
func NewLog(logger ports.Logger) *Log {
	return &Log{logger: logger}
}

// Name implements ports.Reporter.
func (*Log) Name() string { return LogName }

// PreModule implements ports.Reporter.
func (r *Log) PreModule(bc ports.BuildContext, ev domain.Event) error {
	r.logger.Info("module started", "module", ev.Module, "channel", bc.Channel(), "run", bc.Request().RunNumber)
	return nil
}

// PreExecute implements ports.Reporter.
func (r *Log) PreExecute(_ ports.BuildContext, ev domain.Event) error {
	r.logger.Debug("step started", "module", ev.Module, "step", ev.Step)
	return nil
}

// PostExecute implements ports.Reporter.
func (r *Log) PostExecute(_ ports.BuildContext, ev domain.Event, elapsed time.Duration) error {
	if ev.Err != "" {
		r.logger.Warn("step failed", "module", ev.Module, "step", ev.Step, "elapsed", elapsed.String(), "error", ev.Err)
		return nil
	}
	r.logger.Debug("step finished", "module", ev.Module, "step", ev.Step, "elapsed", elapsed.String())
	return nil
}

// PostModule implements ports.Reporter.
func (r *Log) PostModule(_ ports.BuildContext, ev domain.Event) error {
	r.logger.Info("module finished", "module", ev.Module, "result", ev.Result.String())
	return nil
}

// ReportGenerated implements ports.Reporter.
func (r *Log) ReportGenerated(_ ports.BuildContext, ev domain.Event) error {
	if ev.Report != nil {
		r.logger.Info("report generated", "module", ev.Module, "report", ev.Report.Name, "key", ev.Report.ArtifactKey.String())
	}
	return nil
}

// PostBuild implements ports.Reporter.
func (r *Log) PostBuild(_ ports.BuildContext, outcome *domain.BuildOutcome) error {
	if outcome.Result.IsWorseThan(domain.ResultUnstable) {
		r.logger.Warn("module build failed", "module", outcome.Module, "result", outcome.Result.String(), "cause", outcome.Cause)
	}
	return nil
}
