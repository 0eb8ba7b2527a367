package worker_test

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/worker"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// stubService builds every request with a single "compile" step.
type stubService struct {
	pings    atomic.Int32
	shutdown atomic.Bool
	lastReq  atomic.Pointer[domain.BuildRequest]
}

func (s *stubService) Build(stream worker.BuildServer) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	s.lastReq.Store(first.Request)
	module := first.Request.Module.ID()

	lifecycle := func(ev domain.Event) (bool, error) {
		ev.Module = module
		if err := stream.Send(&worker.ServerMessage{Event: &ev}); err != nil {
			return false, err
		}
		msg, err := stream.Recv()
		if err != nil {
			return false, err
		}
		return msg.Ack.Continue, nil
	}
	finish := func(result domain.Result) error {
		return stream.Send(&worker.ServerMessage{Outcome: &domain.BuildOutcome{
			Module: module,
			Result: result,
		}})
	}

	for _, ev := range []domain.Event{
		{Kind: domain.EventModuleEntered},
		{Kind: domain.EventStepStarted, Step: "compile"},
	} {
		ok, err := lifecycle(ev)
		if err != nil {
			return err
		}
		if !ok {
			return finish(domain.ResultFailure)
		}
	}
	if err := stream.Send(&worker.ServerMessage{Event: &domain.Event{
		Kind: domain.EventOutput, Module: module, Data: []byte("BUILD OK\n"),
	}}); err != nil {
		return err
	}
	for _, ev := range []domain.Event{
		{Kind: domain.EventStepFinished, Step: "compile"},
		{Kind: domain.EventModuleLeft, Result: domain.ResultSuccess},
	} {
		if _, err := lifecycle(ev); err != nil {
			return err
		}
	}
	return finish(domain.ResultSuccess)
}

func (s *stubService) Ping(context.Context) error {
	s.pings.Add(1)
	return nil
}

func (s *stubService) Status(context.Context) (*ports.DaemonStatus, error) {
	return &ports.DaemonStatus{Running: true, PID: 42, Uptime: time.Minute, ActiveBuilds: 1}, nil
}

func (s *stubService) Shutdown(context.Context) error {
	s.shutdown.Store(true)
	return nil
}

func serve(t *testing.T, svc worker.Service) string {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "w.sock")
	lis, err := net.Listen("unix", socket)
	require.NoError(t, err)

	srv := grpc.NewServer()
	worker.RegisterService(srv, svc)
	hs := health.NewServer()
	hs.SetServingStatus(worker.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return "unix://" + socket
}

func dial(t *testing.T, target string) *worker.Client {
	t.Helper()
	c, err := worker.Dial("local:1", target)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_Unary(t *testing.T) {
	svc := &stubService{}
	c := dial(t, serve(t, svc))
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	assert.Equal(t, int32(1), svc.pings.Load())

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.DaemonStatus{Running: true, PID: 42, Uptime: time.Minute, ActiveBuilds: 1}, *status)

	assert.True(t, c.Healthy(ctx))

	require.NoError(t, c.Shutdown(ctx))
	assert.True(t, svc.shutdown.Load())
	assert.Equal(t, "local:1", c.Channel())
}

func TestClient_BuildStream(t *testing.T) {
	svc := &stubService{}
	c := dial(t, serve(t, svc))

	req := request()
	req.Env = map[string]string{"CI": "true"}
	stream, err := c.Build(context.Background(), req)
	require.NoError(t, err)

	var kinds []domain.EventKind
	for {
		msg, err := stream.Recv()
		require.NoError(t, err)
		if msg.Outcome != nil {
			assert.Equal(t, domain.ResultSuccess, msg.Outcome.Result)
			break
		}
		kinds = append(kinds, msg.Event.Kind)
		if msg.Event.IsLifecycle() {
			require.NoError(t, stream.Ack(domain.Proceed()))
		}
	}
	require.NoError(t, stream.CloseSend())

	assert.Equal(t, []domain.EventKind{
		domain.EventModuleEntered,
		domain.EventStepStarted,
		domain.EventOutput,
		domain.EventStepFinished,
		domain.EventModuleLeft,
	}, kinds)
	got := svc.lastReq.Load()
	require.NotNil(t, got)
	assert.Equal(t, "g:core", got.Module.ID())
	assert.Equal(t, map[string]string{"CI": "true"}, got.Env)
}

func TestClient_SessionOverTransport(t *testing.T) {
	c := dial(t, serve(t, &stubService{}))
	var calls []string
	rep := &recorder{name: "log", calls: &calls}
	var out bytes.Buffer

	got, disposition, err := worker.NewSession(newLogger(t), rep).Run(context.Background(), c, request(), &out)

	require.NoError(t, err)
	assert.Equal(t, domain.Recycle, disposition)
	assert.Equal(t, domain.ResultSuccess, got.Result)
	assert.Equal(t, "BUILD OK\n", out.String())
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "compile", got.Steps[0].Step)
}

func TestClient_AbortStopsRemoteBuild(t *testing.T) {
	c := dial(t, serve(t, &stubService{}))
	var calls []string
	rep := &recorder{name: "gate", calls: &calls, fail: map[string]error{"PreModule": errors.New("denied")}}

	got, disposition, err := worker.NewSession(newLogger(t), rep).Run(context.Background(), c, request(), nil)

	require.ErrorIs(t, err, domain.ErrLifecycleAborted)
	assert.Equal(t, domain.Recycle, disposition)
	assert.Equal(t, domain.ResultFailure, got.Result)
	assert.Equal(t, "gate", got.Reporter)
	assert.NotContains(t, calls, "gate.PreExecute")
}

func TestClient_Unreachable(t *testing.T) {
	c := dial(t, "unix://"+filepath.Join(t.TempDir(), "missing.sock"))

	got, disposition, err := worker.NewSession(newLogger(t)).Run(context.Background(), c, request(), nil)

	require.ErrorIs(t, err, domain.ErrWorkerUnreachable)
	assert.Equal(t, domain.Discard, disposition)
	assert.Equal(t, domain.ResultFailure, got.Result)
	assert.False(t, c.Healthy(context.Background()))
}
