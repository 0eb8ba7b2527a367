package orchestrator

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/b3rserker/gridmaven/internal/engine/pool"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	causeNothingToDo = "nothing to do"
	causeCancelled   = "run cancelled"
)

// AttrChannel is the span attribute holding the worker channel of a module build.
const AttrChannel = "gridmaven.channel"

// dispatch builds the build set level by level. A level completes before the
// next one starts.
func (r *run) dispatch(ctx context.Context) error {
	r.emitPlan(ctx)

	for _, level := range r.graph.Levels() {
		g, gctx := errgroup.WithContext(ctx)
		for _, m := range level {
			id := m.ID()
			switch {
			case !r.buildSet[id]:
				r.report.Record(domain.NotBuilt(id, causeNothingToDo))
				continue
			case r.stageFailure[id] != nil:
				r.report.Record(domain.BuildOutcome{
					Module:     id,
					Result:     domain.ResultFailure,
					Cause:      r.stageFailure[id].Error(),
					FinishedAt: time.Now(),
				})
				continue
			case ctx.Err() != nil:
				r.skip(id, causeCancelled)
				continue
			}
			if up := r.blockingUpstream(m); up != "" {
				r.skip(id, "upstream "+up+" did not build")
				continue
			}
			g.Go(func() error { return r.build(gctx, m) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// build runs one module on a pooled worker and records its outcome.
func (r *run) build(ctx context.Context, m *domain.Module) (err error) {
	id := m.ID()
	var leased *pool.Handle
	defer func() {
		if p := recover(); p != nil {
			if leased != nil {
				r.pool.Release(leased, domain.Discard)
			}
			err = zerr.With(zerr.With(fmt.Errorf("dispatch panic: %v", p), "module", id), "stack", string(debug.Stack()))
		}
	}()

	h, err := r.pool.Acquire(ctx, r.nextChannel(), r.Workers)
	if err != nil {
		if ctx.Err() != nil {
			r.skip(id, causeCancelled)
			return nil
		}
		r.Logger.Warn("no worker for module", "module", id, "error", err.Error())
		r.report.Record(domain.BuildOutcome{Module: id, Result: domain.ResultFailure, Cause: err.Error(), FinishedAt: time.Now()})
		return nil
	}

	leased = h

	r.mu.Lock()
	r.dispatched[id] = true
	r.mu.Unlock()

	ctx, span := r.Tracer.Start(ctx, id, ports.WithModule(id))
	defer span.End()
	span.SetAttribute(AttrChannel, h.Channel())

	outcome, disposition, runErr := r.Builder.Run(ctx, h.Worker(), r.request(m), span)
	if ctx.Err() != nil && outcome.Result.IsWorseThan(domain.ResultUnstable) {
		outcome.Result = domain.ResultAborted
		outcome.Cause = causeCancelled
		disposition = domain.Discard
	}
	leased = nil
	r.pool.Release(h, disposition)

	if runErr != nil {
		r.Logger.Warn("module build broke", "module", id, "channel", h.Channel(), "error", runErr.Error())
	}
	outcome.Module = cmp.Or(outcome.Module, id)
	if outcome.Result.IsWorseThan(domain.ResultUnstable) {
		span.RecordError(errors.New(cmp.Or(outcome.Cause, outcome.Result.String())))
	}
	r.report.Record(outcome)
	return nil
}

// request builds the immutable request of m.
func (r *run) request(m *domain.Module) domain.BuildRequest {
	goals := m.Goals
	if len(goals) == 0 {
		goals = r.project.Goals
	}
	req := domain.BuildRequest{
		Module:        m.Snapshot(),
		Goals:         goals,
		SourceKey:     r.key(m),
		ReactorKey:    r.key(r.root),
		UpstreamKeys:  r.upstreamKeys(m),
		Env:           r.project.Env,
		RunNumber:     r.number,
		Publish:       r.project.PublishThreshold,
		Tool:          r.project.BuildTool,
		StoreEndpoint: r.project.StoreEndpoint,
	}
	return req.Clone()
}

// upstreamKeys returns the published outputs m builds against: those
// published in this run, else those of the last published build.
func (r *run) upstreamKeys(m *domain.Module) []domain.ArtifactKey {
	var keys []domain.ArtifactKey
	for _, up := range m.Upstream {
		if o, ok := r.report.Outcome(up); ok && !o.ArtifactKey.IsZero() {
			keys = append(keys, o.ArtifactKey)
			continue
		}
		info, err := r.State.BuildInfo(up)
		if err != nil {
			r.Logger.Warn("failed to read build info", "module", up, "error", err.Error())
			continue
		}
		if info != nil && !info.ArtifactKey.IsZero() {
			keys = append(keys, info.ArtifactKey)
		}
	}
	return keys
}

// blockingUpstream returns the first upstream of m that failed, aborted or was skipped.
func (r *run) blockingUpstream(m *domain.Module) string {
	for _, up := range m.Upstream {
		r.mu.Lock()
		skipped := r.skipped[up]
		r.mu.Unlock()
		if skipped {
			return up
		}
		if o, ok := r.report.Outcome(up); ok && o.Result.BlocksDownstream() {
			return up
		}
	}
	return ""
}

// skip records a build set module that was never dispatched.
func (r *run) skip(id, cause string) {
	r.mu.Lock()
	r.skipped[id] = true
	r.mu.Unlock()
	r.Logger.Debug("module skipped", "module", id, "cause", cause)
	r.report.Record(domain.NotBuilt(id, cause))
}

// nextChannel spreads modules over the configured channels in turn.
func (r *run) nextChannel() string {
	channels := r.project.Workers.Channels
	if len(channels) == 0 {
		return "local"
	}
	n := r.channel.Add(1) - 1
	return channels[n%uint64(len(channels))]
}

func (r *run) buildOrder() []string {
	var out []string
	for m := range r.graph.Walk() {
		if r.buildSet[m.ID()] {
			out = append(out, m.ID())
		}
	}
	return out
}

func (r *run) emitPlan(ctx context.Context) {
	ids := r.graph.IDs()
	deps := make(map[string][]string, len(ids))
	for m := range r.graph.Walk() {
		deps[m.ID()] = slices.Clone(m.Upstream)
	}
	r.Tracer.EmitPlan(ctx, ids, deps, r.buildOrder())
}
