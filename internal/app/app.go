// Package app implements the application layer for gridmaven.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/artifacts"
	"github.com/b3rserker/gridmaven/internal/adapters/blobstore"
	"github.com/b3rserker/gridmaven/internal/adapters/daemon"
	"github.com/b3rserker/gridmaven/internal/adapters/detector"
	"github.com/b3rserker/gridmaven/internal/adapters/linear"
	"github.com/b3rserker/gridmaven/internal/adapters/metrics"
	"github.com/b3rserker/gridmaven/internal/adapters/queue"
	"github.com/b3rserker/gridmaven/internal/adapters/reporters"
	"github.com/b3rserker/gridmaven/internal/adapters/runstate"
	"github.com/b3rserker/gridmaven/internal/adapters/telemetry"
	"github.com/b3rserker/gridmaven/internal/adapters/tui"
	"github.com/b3rserker/gridmaven/internal/adapters/watcher"
	"github.com/b3rserker/gridmaven/internal/adapters/worker"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/b3rserker/gridmaven/internal/engine/orchestrator"
	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TracerName names the tracer of build runs.
const TracerName = "gridmaven"

// DefaultIdleTimeout is the idle timeout of a worker served without --idle-timeout.
const DefaultIdleTimeout = 3 * time.Hour

// Deps are the collaborators of an App.
type Deps struct {
	Loader    ports.ConfigLoader
	Logger    ports.Logger
	Resolver  ports.GraphResolver
	Hasher    ports.SourceHasher
	Executor  ports.Executor
	Connector *daemon.Connector
	Stores    *artifacts.Opener
	Metrics   *metrics.Recorder
	Watchers  watcher.Factory
	Mode      detector.OutputMode
}

// App represents the main application logic.
type App struct {
	Deps
	teaOptions []tea.ProgramOption
	workers    ports.WorkerFactory
	stdout     io.Writer
	stderr     io.Writer
}

// New creates a new App instance.
func New(deps Deps) *App {
	return &App{Deps: deps, stdout: os.Stdout, stderr: os.Stderr}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithWorkers replaces the worker daemons with f.
func (a *App) WithWorkers(f ports.WorkerFactory) *App {
	a.workers = f
	return a
}

// WithOutput redirects renderer output.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout, a.stderr = stdout, stderr
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Dir is where the search for gridmaven.yaml starts. Empty means the working directory.
	Dir string
	// Full rebuilds every module.
	Full       bool
	OutputMode string
}

// Run builds the reactor of the project found from opts.Dir.
// A run ending in FAILURE or ABORTED returns ErrBuildFailed.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	project, err := a.load(opts.Dir)
	if err != nil {
		return err
	}
	rep, err := a.build(ctx, project, opts)
	if err != nil {
		return err
	}
	return verdict(rep)
}

func (a *App) load(dir string) (*domain.Project, error) {
	if dir == "" {
		dir = "."
	}
	project, err := a.Loader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return project, nil
}

func verdict(rep *orchestrator.RunReport) error {
	if !rep.Result.BlocksDownstream() {
		return nil
	}
	err := zerr.With(zerr.Wrap(domain.ErrBuildFailed, rep.Result.String()), "run", rep.RunNumber)
	if rep.Cause != "" {
		err = zerr.With(err, "cause", rep.Cause)
	}
	return err
}

// build runs the orchestrator once with a renderer chosen for the terminal.
func (a *App) build(ctx context.Context, project *domain.Project, opts RunOptions) (*orchestrator.RunReport, error) {
	mode, err := detector.ResolveMode(a.Mode, opts.OutputMode)
	if err != nil {
		return nil, err
	}

	var recorder ports.Metrics
	if a.Metrics != nil {
		recorder = a.Metrics
	}
	state := runstate.Open(project.Root)
	reps, err := reporters.New(project.Reporters, reporters.Deps{Logger: a.Logger, Metrics: recorder, State: state})
	if err != nil {
		return nil, err
	}

	renderer := a.renderer(ctx, mode)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	otel.SetTracerProvider(tp)
	tracer := telemetry.NewOTelTracer(TracerName).WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()

	orch := orchestrator.New(orchestrator.Deps{
		Resolver: a.Resolver,
		Store:    a.Stores.Open(project.StoreEndpoint),
		State:    state,
		Hasher:   a.Hasher,
		Workers:  a.workerFactory(project),
		Builder:  worker.NewSession(a.Logger, reps...),
		Queue:    queue.New(project.HostQueueURL, a.Logger),
		Metrics:  recorder,
		Tracer:   tracer,
		Logger:   a.Logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	if project.MetricsAddr != "" && a.Metrics != nil {
		metricsCtx, stopMetrics := context.WithCancel(gctx)
		defer stopMetrics()
		go func() {
			if err := a.Metrics.Serve(metricsCtx, project.MetricsAddr); err != nil {
				a.Logger.Warn("metrics endpoint failed", "addr", project.MetricsAddr, "error", err.Error())
			}
		}()
	}

	runCtx, cancelRun := context.WithCancel(gctx)
	defer cancelRun()
	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		err := renderer.Wait()
		if mode == detector.ModeTUI {
			// Quitting the TUI cancels the run.
			cancelRun()
		}
		return err
	})

	var rep *orchestrator.RunReport
	g.Go(func() error {
		defer func() { _ = renderer.Stop() }()
		var runErr error
		rep, runErr = orch.Run(runCtx, orchestrator.RunOptions{Project: project, Full: opts.Full})
		return runErr
	})

	if err := g.Wait(); err != nil {
		return rep, err
	}
	if rep != nil {
		writeSummary(a.stderr, mode, rep)
	}
	return rep, nil
}

func (a *App) renderer(ctx context.Context, mode detector.OutputMode) ports.Renderer {
	if mode == detector.ModeTUI {
		opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stderr)}, a.teaOptions...)
		return tui.NewRenderer(tui.NewModel(a.stderr), opts...)
	}
	return linear.NewRenderer(a.stdout, a.stderr)
}

func (a *App) workerFactory(project *domain.Project) ports.WorkerFactory {
	if a.workers != nil {
		return a.workers
	}
	return a.Connector.Bind(project.Root, project.Workers.IdleTimeout).Workers()
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Dir string
	// Workspace also removes the build workspaces of local workers.
	Workspace bool
}

// Clean removes the persisted run state and, optionally, the worker workspaces.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	root, err := a.root(options.Dir)
	if err != nil {
		return err
	}

	var errs error
	remove := func(path string, name string) {
		a.Logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.Logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(filepath.Join(root, domain.DefaultStatePath()), "run state")
	if options.Workspace {
		remove(filepath.Join(root, domain.DefaultWorkspacePath()), "worker workspaces")
	}
	return errs
}

func (a *App) root(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	root, err := a.Loader.DiscoverRoot(dir)
	if err != nil {
		return "", zerr.Wrap(err, "failed to find project root")
	}
	return root, nil
}

// StopWorkers shuts down every local worker daemon of the project.
func (a *App) StopWorkers(ctx context.Context, dir string) error {
	root, err := a.root(dir)
	if err != nil {
		return err
	}
	conn := a.Connector.Bind(root, 0)
	channels, err := conn.LocalChannels()
	if err != nil {
		return zerr.Wrap(err, "failed to list local workers")
	}

	var errs error
	stopped := 0
	for _, ch := range channels {
		client, err := conn.Dial(ctx, ch)
		if err != nil {
			if errors.Is(err, domain.ErrDaemonNotRunning) {
				a.Logger.Debug("worker not running", "channel", ch)
				continue
			}
			errs = errors.Join(errs, err)
			continue
		}
		if err := client.Shutdown(ctx); err != nil {
			errs = errors.Join(errs, zerr.With(err, "channel", ch))
		} else {
			stopped++
		}
		_ = client.Close()
	}
	a.Logger.Info("workers stopped", "count", stopped)
	return errs
}

// WorkerOptions configure ServeWorker.
type WorkerOptions struct {
	// Socket is the Unix socket to serve on. Empty selects the first local worker socket.
	Socket string
	// Listen is a TCP address to serve on instead of a socket.
	Listen      string
	IdleTimeout time.Duration
}

// ServeWorker runs a worker process until it is shut down, idles out or ctx is done.
func (a *App) ServeWorker(ctx context.Context, opts WorkerOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}

	builder := daemon.NewBuilder(a.Executor, a.Logger, a.Stores, filepath.Join(cwd, domain.DefaultWorkspacePath()))
	srv := daemon.NewServer(daemon.NewLifecycle(idle), builder, a.Logger)

	if opts.Listen != "" {
		lis, err := net.Listen("tcp", opts.Listen)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to listen"), "addr", opts.Listen)
		}
		return ignoreCancel(srv.Serve(ctx, lis))
	}

	socket := opts.Socket
	if socket == "" {
		socket = a.Connector.Bind(cwd, 0).SocketPath(0)
	}
	return ignoreCancel(srv.ServeSocket(ctx, socket))
}

// StoreOptions configure ServeStore.
type StoreOptions struct {
	Dir    string
	Listen string
}

// ServeStore serves the blob store from a local directory until ctx is done.
func (a *App) ServeStore(ctx context.Context, opts StoreOptions) error {
	lis, err := net.Listen("tcp", opts.Listen)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen"), "addr", opts.Listen)
	}
	a.Logger.Info("serving artifact store", "dir", opts.Dir, "addr", lis.Addr().String())
	return ignoreCancel(blobstore.NewServer(opts.Dir, a.Logger).Serve(ctx, lis))
}

// Watch builds once and again after every settled change to a module
// descriptor or the configuration. Failed runs are logged, not returned.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	project, err := a.load(opts.Dir)
	if err != nil {
		return err
	}
	if opts.OutputMode == "" {
		opts.OutputMode = detector.ModeLinear.String()
	}

	w, err := a.Watchers()
	if err != nil {
		return err
	}

	a.rebuild(ctx, project, opts)
	trigger := watcher.NewTrigger(w, a.Logger, 0)
	err = trigger.Run(ctx, project.Root, func(ctx context.Context, changed []string) {
		a.Logger.Info("descriptors changed", "files", len(changed))
		next, err := a.load(project.Root)
		if err != nil {
			a.Logger.Error(err)
			return
		}
		a.rebuild(ctx, next, opts)
	})
	return ignoreCancel(err)
}

func (a *App) rebuild(ctx context.Context, project *domain.Project, opts RunOptions) {
	rep, err := a.build(ctx, project, opts)
	if err == nil {
		err = verdict(rep)
	}
	if err != nil && ctx.Err() == nil {
		a.Logger.Error(err)
	}
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
