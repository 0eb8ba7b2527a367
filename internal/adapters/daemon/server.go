// Package daemon implements the worker process: a gRPC server on a Unix
// socket or TCP address that builds modules for the orchestrator, its idle
// lifecycle and the connector that spawns local workers on demand.
package daemon

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/b3rserker/gridmaven/internal/adapters/worker"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Server implements worker.Service.
type Server struct {
	lifecycle  *Lifecycle
	builder    *Builder
	logger     ports.Logger
	grpcServer *grpc.Server
	health     *health.Server
}

// NewServer creates a worker server.
func NewServer(lifecycle *Lifecycle, builder *Builder, logger ports.Logger) *Server {
	s := &Server{
		lifecycle:  lifecycle,
		builder:    builder,
		logger:     logger,
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
	}
	worker.RegisterService(s.grpcServer, s)
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.health.SetServingStatus(worker.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

// ServeSocket serves on a Unix socket at socketPath and writes a PID file next to it.
// The socket and PID file are removed on return.
func (s *Server) ServeSocket(ctx context.Context, socketPath string) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create socket directory")
	}

	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return zerr.Wrap(err, "failed to remove stale socket")
	}

	lis, err := net.Listen("unix", socketPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen on socket"), "socket", socketPath)
	}

	if err := os.Chmod(socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to set socket permissions")
	}

	pidPath := socketPath + domain.PIDFileExt
	if err := os.WriteFile(pidPath, fmt.Appendf(nil, "%d", os.Getpid()), domain.PrivateFilePerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to write PID file")
	}

	defer func() {
		_ = os.Remove(socketPath)
		_ = os.Remove(pidPath)
	}()

	return s.Serve(ctx, lis)
}

// Serve serves on lis until ctx is done or the lifecycle shuts the worker down.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.logger.Info("worker listening", "address", lis.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.Stop()
		return ctx.Err()
	case <-s.lifecycle.ShutdownChan():
		s.logger.Info("worker shutting down", "uptime", s.lifecycle.Uptime().String())
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Build implements worker.Service.
func (s *Server) Build(stream worker.BuildServer) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	if first.Request == nil {
		return status.Error(codes.InvalidArgument, "first message must carry a build request")
	}

	s.lifecycle.BeginBuild()
	defer s.lifecycle.EndBuild()

	req := *first.Request
	module := req.Module.ID()
	s.logger.Info("building module", "module", module, "run", req.RunNumber)

	em := &streamEmitter{stream: stream, module: module}
	outcome := s.builder.Build(stream.Context(), req, em)

	s.logger.Info("module built", "module", module, "result", outcome.Result.String(), "duration", outcome.Duration.String())
	return em.send(&worker.ServerMessage{Outcome: &outcome})
}

// Ping implements worker.Service.
func (s *Server) Ping(context.Context) error {
	s.lifecycle.ResetTimer()
	return nil
}

// Status implements worker.Service.
func (s *Server) Status(context.Context) (*ports.DaemonStatus, error) {
	return &ports.DaemonStatus{
		Running:       true,
		PID:           os.Getpid(),
		Uptime:        s.lifecycle.Uptime(),
		LastActivity:  s.lifecycle.LastActivity(),
		IdleRemaining: s.lifecycle.IdleRemaining(),
		ActiveBuilds:  s.lifecycle.ActiveBuilds(),
	}, nil
}

// Shutdown implements worker.Service.
func (s *Server) Shutdown(context.Context) error {
	s.lifecycle.Shutdown()
	return nil
}

// streamEmitter implements Emitter on a Build stream.
// Output may be written while a lifecycle event waits for its ack, so sends are serialized.
type streamEmitter struct {
	mu     sync.Mutex
	stream worker.BuildServer
	module string
}

func (e *streamEmitter) Lifecycle(ev domain.Event) (domain.Ack, error) {
	if err := e.send(&worker.ServerMessage{Event: &ev}); err != nil {
		return domain.Ack{}, err
	}
	msg, err := e.stream.Recv()
	if err != nil {
		return domain.Ack{}, err
	}
	if msg.Ack == nil {
		return domain.Ack{}, status.Error(codes.InvalidArgument, "expected an acknowledgement")
	}
	return *msg.Ack, nil
}

func (e *streamEmitter) Write(p []byte) (int, error) {
	err := e.send(&worker.ServerMessage{Event: &domain.Event{
		Kind:   domain.EventOutput,
		Module: e.module,
		Data:   bytes.Clone(p),
	}})
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (e *streamEmitter) send(msg *worker.ServerMessage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stream.Send(msg)
}
