package worker

import (
	"context"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gridmaven.worker.v1.Worker"

const (
	methodBuild    = "/" + ServiceName + "/Build"
	methodPing     = "/" + ServiceName + "/Ping"
	methodStatus   = "/" + ServiceName + "/Status"
	methodShutdown = "/" + ServiceName + "/Shutdown"
)

// ClientMessage flows from the orchestrator to the worker.
// The first message of a build carries the request, every later one an ack.
type ClientMessage struct {
	Request *domain.BuildRequest `json:"request,omitempty"`
	Ack     *domain.Ack          `json:"ack,omitempty"`
}

// ServerMessage flows from the worker to the orchestrator.
// Exactly one of Event and Outcome is set. The outcome is the last message.
type ServerMessage struct {
	Event   *domain.Event        `json:"event,omitempty"`
	Outcome *domain.BuildOutcome `json:"outcome,omitempty"`
}

// Service is the worker side of the transport.
type Service interface {
	Build(stream BuildServer) error
	Ping(ctx context.Context) error
	Status(ctx context.Context) (*ports.DaemonStatus, error)
	Shutdown(ctx context.Context) error
}

// BuildServer is the worker end of one Build stream.
type BuildServer interface {
	Context() context.Context
	Recv() (*ClientMessage, error)
	Send(msg *ServerMessage) error
}

// RegisterService registers srv on s.
func RegisterService(s grpc.ServiceRegistrar, srv Service) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Service)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "Status", Handler: statusHandler},
		{MethodName: "Shutdown", Handler: shutdownHandler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Build",
			Handler:       buildHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
}

var buildStreamDesc = grpc.StreamDesc{
	StreamName:    "Build",
	ServerStreams: true,
	ClientStreams: true,
}

func buildHandler(srv any, stream grpc.ServerStream) error {
	return srv.(Service).Build(&buildServer{stream})
}

type buildServer struct {
	grpc.ServerStream
}

func (s *buildServer) Recv() (*ClientMessage, error) {
	msg := new(ClientMessage)
	if err := s.RecvMsg(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *buildServer) Send(msg *ServerMessage) error {
	return s.SendMsg(msg)
}

func pingHandler(
	srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	return unary(srv, ctx, dec, interceptor, new(emptypb.Empty), methodPing,
		func(ctx context.Context, s Service, _ any) (any, error) {
			return &emptypb.Empty{}, s.Ping(ctx)
		})
}

func statusHandler(
	srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	return unary(srv, ctx, dec, interceptor, new(statusRequest), methodStatus,
		func(ctx context.Context, s Service, _ any) (any, error) {
			return s.Status(ctx)
		})
}

func shutdownHandler(
	srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	return unary(srv, ctx, dec, interceptor, new(emptypb.Empty), methodShutdown,
		func(ctx context.Context, s Service, _ any) (any, error) {
			return &emptypb.Empty{}, s.Shutdown(ctx)
		})
}

// statusRequest is the empty JSON body of a Status call.
type statusRequest struct{}

func unary(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
	in any,
	method string,
	call func(ctx context.Context, s Service, in any) (any, error),
) (any, error) {
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(Service)
	if interceptor == nil {
		return call(ctx, s, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return call(ctx, s, req)
	})
}
