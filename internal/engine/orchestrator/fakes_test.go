package orchestrator_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/b3rserker/gridmaven/internal/adapters/runstate"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/b3rserker/gridmaven/internal/core/ports/mocks"
	"github.com/b3rserker/gridmaven/internal/engine/orchestrator"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const job = "shop"

// reactor describes R with children A and B at level one and C, depending
// on A, at level two.
func reactor(t *testing.T, extra ...string) *domain.BuildGraph {
	t.Helper()
	g := domain.NewBuildGraph()
	root := &domain.Module{
		Coordinate:     domain.Coordinate{Group: "g", Artifact: "r", Version: "1.0", Packaging: domain.PackagingPOM},
		RelativePath:   ".",
		DescriptorFile: domain.DescriptorYAML,
	}
	require.NoError(t, g.AddModule(root))
	child := func(artifact string, deps ...string) {
		m := &domain.Module{
			Coordinate:     domain.Coordinate{Group: "g", Artifact: artifact, Version: "1.0", Packaging: "jar"},
			RelativePath:   artifact,
			DescriptorFile: domain.DescriptorYAML,
			Parent:         root,
			Upstream:       append([]string{root.ID()}, deps...),
		}
		root.Children = append(root.Children, m)
		require.NoError(t, g.AddModule(m))
	}
	child("a")
	child("b")
	child("c", "g:a")
	for _, name := range extra {
		child(name)
	}
	g.Seal()
	return g
}

type memStore struct {
	mu         sync.Mutex
	trees      map[string]string
	files      map[string]string
	namespaces []string
	treeErr    error
	fileErr    map[string]error
	nsErr      error
}

func newMemStore() *memStore {
	return &memStore{trees: map[string]string{}, files: map[string]string{}, fileErr: map[string]error{}}
}

func (s *memStore) PutTree(_ context.Context, localPath, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.treeErr != nil {
		return s.treeErr
	}
	s.trees[key] = localPath
	return nil
}

func (s *memStore) PutFile(_ context.Context, path, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fileErr[key]; err != nil {
		return err
	}
	s.files[key] = path
	return nil
}

func (s *memStore) GetTree(context.Context, string, string) error { return nil }

func (s *memStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, tree := s.trees[key]
	_, file := s.files[key]
	return tree || file, nil
}

func (s *memStore) EnsureNamespace(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nsErr != nil {
		return s.nsErr
	}
	s.namespaces = append(s.namespaces, prefix)
	return nil
}

// dirHasher hashes a directory to its base name plus a version that tests bump.
type dirHasher struct {
	mu      sync.Mutex
	version map[string]string
}

func (h *dirHasher) HashTree(dir string, _ []string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return filepath.Base(dir) + "@" + h.version[filepath.Base(dir)], nil
}

func (h *dirHasher) touch(name, version string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.version == nil {
		h.version = map[string]string{}
	}
	h.version[name] = version
}

type stubWorker struct{ channel string }

func (w stubWorker) Channel() string { return w.channel }
func (w stubWorker) Build(context.Context, domain.BuildRequest) (ports.BuildStream, error) {
	return nil, errors.New("unused")
}
func (w stubWorker) Close() error { return nil }

type stubFactory struct{}

func (stubFactory) Connect(_ context.Context, channel string) (ports.Worker, error) {
	return stubWorker{channel: channel}, nil
}

// countingFactory refuses the channels in down and counts opened and closed workers.
type countingFactory struct {
	mu     sync.Mutex
	down   map[string]bool
	opened int
	closed int
}

func (f *countingFactory) Connect(_ context.Context, channel string) (ports.Worker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down[channel] {
		return nil, errors.New("connection refused")
	}
	f.opened++
	return countedWorker{stubWorker: stubWorker{channel: channel}, factory: f}, nil
}

func (f *countingFactory) setDown(channels ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = map[string]bool{}
	for _, ch := range channels {
		f.down[ch] = true
	}
}

func (f *countingFactory) counts() (opened, closed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened, f.closed
}

type countedWorker struct {
	stubWorker
	factory *countingFactory
}

func (w countedWorker) Close() error {
	w.factory.mu.Lock()
	defer w.factory.mu.Unlock()
	w.factory.closed++
	return nil
}

// scriptedBuilder answers each module with a configured result.
type scriptedBuilder struct {
	mu       sync.Mutex
	results  map[string]domain.Result
	requests map[string]domain.BuildRequest
	order    []string
	// block, if set, runs before the outcome is produced.
	block func(ctx context.Context, module string)
}

func newBuilder() *scriptedBuilder {
	return &scriptedBuilder{results: map[string]domain.Result{}, requests: map[string]domain.BuildRequest{}}
}

func (b *scriptedBuilder) Run(ctx context.Context, w ports.Worker, req domain.BuildRequest, output io.Writer) (domain.BuildOutcome, domain.Disposition, error) {
	id := req.Module.ID()
	b.mu.Lock()
	b.requests[id] = req
	b.order = append(b.order, id)
	result := b.results[id]
	block := b.block
	b.mu.Unlock()

	_, _ = io.WriteString(output, "building "+id+" on "+w.Channel()+"\n")
	if block != nil {
		block(ctx, id)
	}
	if ctx.Err() != nil {
		return domain.BuildOutcome{Module: id, Result: domain.ResultFailure, Cause: ctx.Err().Error()}, domain.Discard, ctx.Err()
	}
	o := domain.BuildOutcome{Module: id, Result: result}
	if result.IsBetterOrEqual(req.Publish) {
		o.ArtifactKey = req.SourceKey
	}
	return o, domain.Recycle, nil
}

func (b *scriptedBuilder) built() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.order...)
}

func (b *scriptedBuilder) request(id string) domain.BuildRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[id]
}

type harness struct {
	store    *memStore
	state    *runstate.Store
	hasher   *dirHasher
	builder  *scriptedBuilder
	resolver *mocks.MockGraphResolver
	queue    *mocks.MockHostQueue
	project  *domain.Project
	deps     orchestrator.Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	root := t.TempDir()
	h := &harness{
		store:    newMemStore(),
		state:    runstate.Open(root),
		hasher:   &dirHasher{},
		builder:  newBuilder(),
		resolver: mocks.NewMockGraphResolver(ctrl),
		queue:    mocks.NewMockHostQueue(ctrl),
		project: &domain.Project{
			Root:             root,
			Job:              job,
			RootDescriptor:   domain.DescriptorYAML,
			Recursive:        true,
			Goals:            []string{"install"},
			Policy:           domain.PolicyIncremental,
			PublishThreshold: domain.ResultSuccess,
			TriggerThreshold: domain.ResultSuccess,
			StoreEndpoint:    "http://store:8080",
			Workers:          domain.WorkerSettings{Max: 2, Channels: []string{"local:0", "local:1"}},
			BuildTool:        domain.BuildTool{Command: "mvn", OutputDir: "target"},
			Env:              map[string]string{"CI": "true"},
		},
	}
	h.deps = orchestrator.Deps{
		Resolver: h.resolver,
		Store:    h.store,
		State:    h.state,
		Hasher:   h.hasher,
		Workers:  stubFactory{},
		Builder:  h.builder,
		Queue:    h.queue,
		Logger:   log,
	}
	return h
}

// resolves makes every Resolve call return a fresh reactor.
func (h *harness) resolves(t *testing.T, extra ...string) {
	h.resolver.EXPECT().Resolve(gomock.Any(), filepath.Join(h.project.Root, domain.DescriptorYAML), true).
		DoAndReturn(func(context.Context, string, bool) (*domain.BuildGraph, error) {
			return reactor(t, extra...), nil
		}).AnyTimes()
}

func (h *harness) run(t *testing.T, ctx context.Context, full bool) *orchestrator.RunReport {
	t.Helper()
	rep, err := orchestrator.New(h.deps).Run(ctx, orchestrator.RunOptions{Project: h.project, Full: full})
	require.NoError(t, err)
	require.NotNil(t, rep)
	return rep
}

func key(artifact string) domain.ArtifactKey {
	root := domain.Coordinate{Group: "g", Artifact: "r", Version: "1.0", Packaging: domain.PackagingPOM}
	if artifact == "r" {
		return domain.NewArtifactKey(job, root, root)
	}
	return domain.NewArtifactKey(job, root, domain.Coordinate{Group: "g", Artifact: artifact, Version: "1.0", Packaging: "jar"})
}
