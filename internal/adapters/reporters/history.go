package reporters

import (
	"context"
	"slices"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

// History appends every module outcome with its step timings to the run state.
// The write runs as a build side task, so a failing store fails the build.
type History struct {
	Base
	state ports.RunStateStore
}

// NewHistory creates a History reporter.
func NewHistory(state ports.RunStateStore) *History {
	return &History{state: state}
}

// Name implements ports.Reporter.
func (*History) Name() string { return HistoryName }

// PostBuild implements ports.Reporter.
func (r *History) PostBuild(bc ports.BuildContext, outcome *domain.BuildOutcome) error {
	if r.state == nil {
		return nil
	}
	module := outcome.Module
	entry := domain.HistoryEntry{
		RunNumber: bc.Request().RunNumber,
		Result:    outcome.Result,
		Duration:  outcome.Duration,
		Steps:     slices.Clone(outcome.Steps),
		Cause:     outcome.Cause,
		Timestamp: outcome.FinishedAt,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	bc.Go("history", func(context.Context) error {
		if err := r.state.AppendHistory(module, entry); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to record history"), "module", module)
		}
		return nil
	})
	return nil
}
