// Package orchestrator drives one reactor build: it resolves the module
// graph, stages sources into the artifact store, builds the selected modules
// level by level on pooled workers and persists what the next run needs.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/b3rserker/gridmaven/internal/engine/pool"
	"go.trai.ch/zerr"
)

// Builder runs one module build on a leased worker.
type Builder interface {
	Run(ctx context.Context, w ports.Worker, req domain.BuildRequest, output io.Writer) (domain.BuildOutcome, domain.Disposition, error)
}

// Deps are the collaborators of an Orchestrator. Metrics, Queue and Tracer may be nil.
type Deps struct {
	Resolver ports.GraphResolver
	Store    ports.ArtifactStore
	State    ports.RunStateStore
	Hasher   ports.SourceHasher
	Workers  ports.WorkerFactory
	Builder  Builder
	Queue    ports.HostQueue
	Metrics  ports.Metrics
	Tracer   ports.Tracer
	Logger   ports.Logger
}

// RunOptions scope one run.
type RunOptions struct {
	Project *domain.Project
	// Full forces a full rebuild regardless of the policy.
	Full bool
}

// Orchestrator runs reactor builds.
type Orchestrator struct {
	Deps
}

// New creates an Orchestrator.
func New(deps Deps) *Orchestrator {
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Tracer == nil {
		deps.Tracer = nopTracer{}
	}
	return &Orchestrator{Deps: deps}
}

// run carries the state of one Run call. Fields written after staging are
// either owned by the control goroutine or guarded by mu.
type run struct {
	*Orchestrator
	opts    RunOptions
	project *domain.Project
	pool    *pool.Pool
	state   domain.RunState
	start   time.Time

	number     int
	ledger     *domain.UnbuiltModuleLedger
	fullBuild  bool
	graph      *domain.BuildGraph
	root       *domain.Module
	reactorDir string
	removed    []string

	buildSet map[string]bool
	hashes   map[string]string

	mu           sync.Mutex
	stageFailure map[string]error
	skipped      map[string]bool
	dispatched   map[string]bool

	report  *AggregateReport
	channel atomic.Uint64
}

// Run executes the whole state machine once.
// An expected failure ends the run with a FAILURE report and a nil error; any
// other error is a defect and is returned.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	if opts.Project == nil {
		return nil, zerr.Wrap(domain.ErrInvalidConfig, "run needs a project")
	}
	r := &run{
		Orchestrator: o,
		opts:         opts,
		project:      opts.Project,
		pool:         pool.New(opts.Project.Workers.Max, o.Logger),
		state:        domain.RunInit,
		start:        time.Now(),
		hashes:       make(map[string]string),
		stageFailure: make(map[string]error),
		skipped:      make(map[string]bool),
		dispatched:   make(map[string]bool),
		report:       NewAggregateReport(),
	}
	defer func() {
		if err := r.pool.Close(); err != nil {
			o.Logger.Warn("failed to close workers", "error", err.Error())
		}
	}()

	ctx, span := o.Tracer.Start(ctx, "run "+r.project.Job)
	defer span.End()

	rep, err := r.execute(ctx)
	var abort *domain.AbortError
	switch {
	case err == nil:
	case errors.As(err, &abort):
		o.Logger.Warn("run aborted", "cause", abort.Cause)
		span.RecordError(err)
		rep = r.aborted(abort.Cause)
		err = nil
	default:
		span.RecordError(err)
		o.Logger.Error(zerr.With(zerr.With(err, "modules", r.moduleCount()), "root", r.rootID()))
		rep = r.aborted(err.Error())
		err = zerr.With(zerr.Wrap(err, "run failed"), "state", string(r.state))
	}
	o.Metrics.ObserveRun(rep.Result, rep.Duration)
	return rep, err
}

func (r *run) execute(ctx context.Context) (rep *RunReport, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = zerr.With(fmt.Errorf("orchestrator panic: %v", p), "stack", string(debug.Stack()))
		}
	}()

	steps := []struct {
		state domain.RunState
		fn    func(context.Context) error
	}{
		{domain.RunInit, r.init},
		{domain.RunResolvingGraph, r.resolve},
		{domain.RunStagingSource, r.stage},
		{domain.RunDispatchingModules, r.dispatch},
	}
	for i, s := range steps {
		if i > 0 {
			if err := r.transition(s.state); err != nil {
				return nil, err
			}
		}
		if err := s.fn(ctx); err != nil {
			return nil, err
		}
	}

	if err := r.transition(domain.RunAggregating); err != nil {
		return nil, err
	}
	rep = r.aggregate(ctx)

	if err := r.transition(domain.RunFinalizing); err != nil {
		return nil, err
	}
	if err := r.finalize(ctx, rep); err != nil {
		return nil, err
	}
	if err := r.transition(domain.RunDone); err != nil {
		return nil, err
	}
	rep.State = r.state
	rep.Duration = time.Since(r.start)
	return rep, nil
}

func (r *run) transition(to domain.RunState) error {
	next, err := r.state.Next(to)
	if err != nil {
		return err
	}
	r.Logger.Debug("run state", "from", string(r.state), "to", string(to))
	r.state = next
	return nil
}

func (r *run) aborted(cause string) *RunReport {
	if next, err := r.state.Next(domain.RunAborted); err == nil {
		r.state = next
	}
	rep := &RunReport{
		RunNumber: r.number,
		State:     r.state,
		Result:    domain.ResultFailure,
		Cause:     cause,
		Duration:  time.Since(r.start),
	}
	if r.graph != nil {
		rep.Cuts = r.graph.Cuts()
	}
	return rep
}

// init loads the ledger and numbers the run.
func (r *run) init(context.Context) error {
	ledger, err := r.State.Ledger()
	if err != nil {
		return zerr.Wrap(err, "failed to load ledger")
	}
	number, err := r.State.NextRunNumber()
	if err != nil {
		return zerr.Wrap(err, "failed to number run")
	}
	r.ledger = ledger
	r.number = number
	r.fullBuild = r.opts.Full || ledger.NeedsFullBuild || r.project.Policy == domain.PolicyFull
	r.Logger.Debug("run initialized", "run", number, "full", r.fullBuild, "ledger", ledger.Len())
	return nil
}

// resolve reads the reactor and reconciles it with the previous run's records.
func (r *run) resolve(ctx context.Context) error {
	graph, err := r.Resolver.Resolve(ctx, r.project.RootDescriptorPath(), r.project.Recursive)
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchDescriptor) || errors.Is(err, domain.ErrEmbedderFailure) {
			if uerr := r.State.UpdateLedger(func(l *domain.UnbuiltModuleLedger) error {
				l.NeedsFullBuild = true
				return nil
			}); uerr != nil {
				return errors.Join(err, uerr)
			}
		}
		return domain.NewAbortError(err.Error())
	}
	r.graph = graph
	r.root = graph.Root()
	if r.root == nil {
		return domain.NewAbortError("reactor has no modules")
	}
	r.reactorDir = reactorDir(r.project.RootDescriptorPath())

	previous, err := r.State.Records()
	if err != nil {
		return zerr.Wrap(err, "failed to load module records")
	}
	rec := domain.Reconcile(previous, graph, r.number)
	if rec.Dirty {
		if err := r.State.PutRecords(rec.Records); err != nil {
			return zerr.Wrap(err, "failed to store module records")
		}
	}
	r.removed = rec.Removed
	for _, id := range rec.Added {
		r.Logger.Info("module added", "module", id)
	}
	for _, id := range rec.Removed {
		r.Logger.Info("module removed", "module", id)
	}

	if r.ledger.NeedsFullBuild {
		if err := r.State.UpdateLedger(func(l *domain.UnbuiltModuleLedger) error {
			l.NeedsFullBuild = false
			return nil
		}); err != nil {
			return zerr.Wrap(err, "failed to clear full build marker")
		}
	}

	r.Logger.Info("reactor resolved", "modules", graph.Len(), "levels", len(graph.Levels()), "run", r.number)
	return nil
}

func (r *run) key(m *domain.Module) domain.ArtifactKey {
	return domain.NewArtifactKey(r.project.Job, r.root.Coordinate, m.Coordinate)
}

func (r *run) moduleDir(m *domain.Module) string {
	return filepath.Join(r.reactorDir, filepath.FromSlash(m.RelativePath))
}

func (r *run) moduleCount() int {
	if r.graph == nil {
		return 0
	}
	return r.graph.Len()
}

func (r *run) rootID() string {
	if r.root == nil {
		return ""
	}
	return r.root.ID()
}

// reactorDir returns the directory holding the root descriptor.
func reactorDir(location string) string {
	if info, err := os.Stat(location); err == nil && info.IsDir() {
		return location
	}
	return filepath.Dir(location)
}

type nopMetrics struct{}

func (nopMetrics) ObserveStep(string, string, time.Duration)          {}
func (nopMetrics) ObserveModule(string, domain.Result, time.Duration) {}
func (nopMetrics) ObserveRun(domain.Result, time.Duration)            {}
func (nopMetrics) ObserveStaging(string, time.Duration, error)        {}

type nopTracer struct{}

func (nopTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, nopSpan{}
}

func (nopTracer) EmitPlan(context.Context, []string, map[string][]string, []string) {}

type nopSpan struct{}

func (nopSpan) Write(p []byte) (int, error) { return len(p), nil }
func (nopSpan) End()                        {}
func (nopSpan) RecordError(error)           {}
func (nopSpan) SetAttribute(string, any)    {}
