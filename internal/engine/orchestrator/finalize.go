package orchestrator

import (
	"context"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"go.trai.ch/zerr"
)

// aggregate folds the module results into the run result.
func (r *run) aggregate(ctx context.Context) *RunReport {
	own := domain.ResultSuccess
	if ctx.Err() != nil {
		own = domain.ResultAborted
	}
	return &RunReport{
		RunNumber: r.number,
		Result:    domain.Combine(own, r.report.Results()...),
		Modules:   r.report.Outcomes(),
		Counts:    r.report.Counts(),
		BuildSet:  r.buildOrder(),
		FullBuild: r.fullBuild,
		Cuts:      r.graph.Cuts(),
	}
}

// finalize persists build info, history and the ledger, then triggers the
// downstream jobs.
func (r *run) finalize(ctx context.Context, rep *RunReport) error {
	now := time.Now()
	threshold := r.project.PublishThreshold

	var published, unbuilt []string
	for _, o := range rep.Modules {
		id := o.Module
		if !r.buildSet[id] {
			continue
		}
		if !r.dispatched[id] {
			// Built modules are recorded by the history reporter on the worker session.
			// A module that never reached a worker is carried to the next run.
			if err := r.State.AppendHistory(id, domain.HistoryEntry{
				RunNumber: r.number,
				Result:    o.Result,
				Cause:     o.Cause,
				Timestamp: now,
			}); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to append history"), "module", id)
			}
			unbuilt = append(unbuilt, id)
			continue
		}
		if !o.Result.IsBetterOrEqual(threshold) {
			if err := r.forgetHash(id); err != nil {
				return err
			}
			continue
		}
		published = append(published, id)
		if hash, ok := r.hashes[id]; ok {
			if err := r.State.PutBuildInfo(domain.BuildInfo{
				Module:      id,
				SourceHash:  hash,
				ArtifactKey: o.ArtifactKey,
				Result:      o.Result,
				RunNumber:   r.number,
				Timestamp:   now,
			}); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to store build info"), "module", id)
			}
		}
	}

	if err := r.State.UpdateLedger(func(l *domain.UnbuiltModuleLedger) error {
		l.Remove(published...)
		l.Remove(r.removed...)
		l.Add(unbuilt...)
		return nil
	}); err != nil {
		return zerr.Wrap(err, "failed to update ledger")
	}
	if len(unbuilt) > 0 {
		r.Logger.Info("modules carried to the next run", "modules", len(unbuilt))
	}

	rep.Triggered = r.trigger(ctx, rep.Result)

	r.Logger.Info("run finished",
		"run", r.number,
		"result", rep.Result.String(),
		"built", len(r.dispatched),
		"duration", time.Since(r.start).Round(time.Millisecond).String(),
	)
	return nil
}

// forgetHash drops the recorded source hash of a module that was built below
// the publish threshold so the next incremental run selects it again. The last
// published output stays usable by downstream modules.
func (r *run) forgetHash(id string) error {
	info, err := r.State.BuildInfo(id)
	if err != nil || info == nil || info.SourceHash == "" {
		return err
	}
	info.SourceHash = ""
	if err := r.State.PutBuildInfo(*info); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to store build info"), "module", id)
	}
	return nil
}

// trigger enqueues the downstream jobs when the run result meets the trigger threshold.
func (r *run) trigger(ctx context.Context, result domain.Result) []string {
	if r.Queue == nil || len(r.project.Downstream) == 0 || !result.IsBetterOrEqual(r.project.TriggerThreshold) {
		return nil
	}
	var triggered []string
	for _, job := range r.project.Downstream {
		if err := r.Queue.Enqueue(ctx, job); err != nil {
			r.Logger.Warn("failed to trigger downstream job", "job", job, "error", err.Error())
			continue
		}
		triggered = append(triggered, job)
	}
	return triggered
}
