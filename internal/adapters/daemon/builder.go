package daemon

import (
	"cmp"
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

// Environment variables handed to every build step.
const (
	EnvReactor    = "GRIDMAVEN_REACTOR"
	EnvRepository = "GRIDMAVEN_REPOSITORY"
	EnvModule     = "GRIDMAVEN_MODULE"
	EnvRun        = "GRIDMAVEN_RUN"
)

// PublishReport names the report announcing a published module output.
const PublishReport = "publish"

var errBuildAborted = zerr.New("build aborted by orchestrator")

// StoreOpener opens the artifact store at an endpoint.
type StoreOpener interface {
	Open(endpoint string) ports.ArtifactStore
}

// Emitter delivers the events of one build to the orchestrator.
type Emitter interface {
	// Lifecycle sends ev and blocks until it is acknowledged.
	Lifecycle(ev domain.Event) (domain.Ack, error)
	// Write sends build tool output.
	io.Writer
}

// Builder runs module builds inside a worker process.
//
// The workspace holds one directory per reactor and run:
//
//	<workspace>/<reactor>/<run>/reactor     expanded reactor sources
//	<workspace>/<reactor>/<run>/repository  expanded upstream outputs
type Builder struct {
	executor  ports.Executor
	logger    ports.Logger
	stores    StoreOpener
	workspace string
	cache     *FetchCache

	mu     sync.Mutex
	latest map[string]int // reactor dir -> newest run seen
}

// NewBuilder creates a builder working below workspace.
func NewBuilder(executor ports.Executor, logger ports.Logger, stores StoreOpener, workspace string) *Builder {
	return &Builder{
		executor:  executor,
		logger:    logger,
		stores:    stores,
		workspace: workspace,
		cache:     NewFetchCache(),
		latest:    make(map[string]int),
	}
}

// Build runs req and reports its lifecycle through em. It always returns an outcome.
func (b *Builder) Build(ctx context.Context, req domain.BuildRequest, em Emitter) domain.BuildOutcome {
	start := time.Now()
	run := &moduleBuild{
		Builder: b,
		req:     req,
		em:      em,
		module:  req.Module.ID(),
		store:   b.stores.Open(req.StoreEndpoint),
	}

	result, err := run.run(ctx)
	outcome := domain.BuildOutcome{
		Module:      run.module,
		Result:      result,
		Duration:    time.Since(start),
		ArtifactKey: run.published,
		FinishedAt:  time.Now(),
	}
	if err != nil {
		outcome.Cause = err.Error()
	}
	return outcome
}

type moduleBuild struct {
	*Builder
	req    domain.BuildRequest
	em     Emitter
	module string
	store  ports.ArtifactStore

	reactorDir string
	repoDir    string
	moduleDir  string
	published  domain.ArtifactKey
}

func (m *moduleBuild) run(ctx context.Context) (domain.Result, error) {
	if err := m.lifecycle(domain.Event{Kind: domain.EventModuleEntered}); err != nil {
		return domain.ResultFailure, err
	}

	result, err := m.build(ctx)
	if errors.Is(err, errBuildAborted) {
		return domain.ResultFailure, err
	}

	left := domain.Event{Kind: domain.EventModuleLeft, Result: result}
	if err != nil {
		left.Err = err.Error()
	}
	if leftErr := m.lifecycle(left); leftErr != nil && err == nil {
		return domain.ResultFailure, leftErr
	}
	return result, err
}

func (m *moduleBuild) build(ctx context.Context) (domain.Result, error) {
	if err := m.prepare(ctx); err != nil {
		return domain.ResultFailure, err
	}

	env := m.environment()
	result := domain.ResultSuccess
	for _, goal := range m.req.Goals {
		if err := m.lifecycle(domain.Event{Kind: domain.EventStepStarted, Step: goal}); err != nil {
			return domain.ResultFailure, err
		}

		execErr := m.executor.Execute(ctx, m.req.Tool.CommandFor(goal, m.moduleDir, env), m.em, m.em)
		step := m.stepResult(execErr)

		finished := domain.Event{Kind: domain.EventStepFinished, Step: goal}
		if execErr != nil {
			finished.Err = execErr.Error()
		}
		if err := m.lifecycle(finished); err != nil {
			return domain.ResultFailure, err
		}

		result = domain.Worst(result, step)
		if step == domain.ResultFailure {
			return result, zerr.With(zerr.Wrap(execErr, domain.ErrStepFailed.Error()), "step", goal)
		}
	}

	if result.IsBetterOrEqual(m.req.Publish) {
		if err := m.publish(ctx); err != nil {
			return domain.ResultFailure, err
		}
	}
	return result, nil
}

func (m *moduleBuild) stepResult(err error) domain.Result {
	if err == nil {
		return domain.ResultSuccess
	}
	if code := m.req.Tool.UnstableExitCode; code != 0 && domain.ExitCode(err) == code {
		return domain.ResultUnstable
	}
	return domain.ResultFailure
}

// prepare expands the reactor tree, the module sources and every upstream output.
func (m *moduleBuild) prepare(ctx context.Context) error {
	base := filepath.Join(m.workspace, workspaceName(cmp.Or(m.req.ReactorKey, m.req.SourceKey)))
	runDir := filepath.Join(base, strconv.Itoa(m.req.RunNumber))
	m.prune(base, m.req.RunNumber)

	m.reactorDir = filepath.Join(runDir, "reactor")
	m.repoDir = filepath.Join(runDir, "repository")
	m.moduleDir = filepath.Join(m.reactorDir, filepath.FromSlash(m.req.Module.RelativePath))

	reactorKey := cmp.Or(m.req.ReactorKey, m.req.SourceKey)
	if err := m.cache.Fetch(ctx, m.reactorDir, func(ctx context.Context) error {
		return m.store.GetTree(ctx, reactorKey.SourcePath(), m.reactorDir)
	}); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to fetch reactor sources"), "key", reactorKey.String())
	}

	if m.req.SourceKey != reactorKey {
		if err := m.store.GetTree(ctx, m.req.SourceKey.SourcePath(), m.moduleDir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to fetch module sources"), "key", m.req.SourceKey.String())
		}
	}

	for _, key := range m.req.UpstreamKeys {
		dest := filepath.Join(m.repoDir, filepath.FromSlash(key.String()))
		if err := m.cache.Fetch(ctx, dest, func(ctx context.Context) error {
			return m.store.GetTree(ctx, key.OutputPath(), dest)
		}); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to fetch upstream output"), "key", key.String())
		}
	}
	return nil
}

// prune removes the workspaces of older runs of a reactor once a newer run shows up.
func (m *moduleBuild) prune(base string, run int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run <= m.latest[base] {
		return
	}
	m.latest[base] = run

	entries, err := os.ReadDir(base)
	if err != nil {
		return
	}
	for _, e := range entries {
		n, err := strconv.Atoi(e.Name())
		if err != nil || n >= run {
			continue
		}
		dir := filepath.Join(base, e.Name())
		m.cache.Evict(dir)
		if err := os.RemoveAll(dir); err != nil {
			m.logger.Warn("failed to prune workspace", "dir", dir, "error", err.Error())
		}
	}
}

// publish stores the module output. Aggregators, and modules that produced
// nothing, publish their descriptor instead.
func (m *moduleBuild) publish(ctx context.Context) error {
	key := m.req.SourceKey
	files := []string{m.req.Tool.OutputDir}

	var err error
	switch {
	case m.req.Module.IsAggregator():
		err = zerr.Wrap(domain.ErrSourceNotFound, "aggregators publish their descriptor")
	case m.req.Tool.OutputDir == "":
		err = zerr.Wrap(domain.ErrSourceNotFound, "no output directory configured")
	default:
		err = m.store.PutTree(ctx, filepath.Join(m.moduleDir, filepath.FromSlash(m.req.Tool.OutputDir)), key.OutputPath())
	}
	if errors.Is(err, domain.ErrSourceNotFound) {
		m.logger.Debug("publishing descriptor only", "module", m.module)
		files = []string{m.req.Module.DescriptorFile}
		err = m.store.PutFile(ctx, filepath.Join(m.moduleDir, m.req.Module.DescriptorFile), key.OutputPath())
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPublishFailed.Error()), "module", m.module)
	}

	m.published = key
	return m.lifecycle(domain.Event{
		Kind:   domain.EventReportGenerated,
		Report: &domain.Report{Name: PublishReport, ArtifactKey: key, Files: files},
	})
}

func (m *moduleBuild) environment() []string {
	env := maps.Clone(m.req.Env)
	if env == nil {
		env = make(map[string]string, 4)
	}
	env[EnvReactor] = m.reactorDir
	env[EnvRepository] = m.repoDir
	env[EnvModule] = m.module
	env[EnvRun] = strconv.Itoa(m.req.RunNumber)

	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}

// lifecycle sends ev and turns an abort acknowledgement into errBuildAborted.
func (m *moduleBuild) lifecycle(ev domain.Event) error {
	ev.Module = m.module
	ev.Time = time.Now()
	ack, err := m.em.Lifecycle(ev)
	if err != nil {
		return zerr.With(errors.Join(errBuildAborted, err), "event", string(ev.Kind))
	}
	if !ack.Continue {
		return zerr.With(zerr.Wrap(errBuildAborted, ack.Reason), "event", string(ev.Kind))
	}
	return nil
}

// workspaceName flattens an artifact key's job and reactor segments into one directory name.
func workspaceName(key domain.ArtifactKey) string {
	parts := strings.Split(key.String(), "/")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.NewReplacer(":", "_", "/", "_").Replace(strings.Join(parts, "_"))
}
