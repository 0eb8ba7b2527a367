package worker

import (
	"context"
	"errors"
	"io"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Client is a connection to one worker process.
// It implements ports.Worker and ports.DaemonClient.
type Client struct {
	channel string
	conn    *grpc.ClientConn
}

// Dial creates a client for the worker at target, a gRPC target such as
// "unix:///path/to/worker.sock" or "host:port".
// grpc.NewClient returns immediately; the connection is made on the first call.
func Dial(channel, target string) (*Client, error) {
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, zerr.With(unreachable(err), "target", target)
	}
	return &Client{channel: channel, conn: conn}, nil
}

// Channel implements ports.Worker.
func (c *Client) Channel() string {
	return c.channel
}

// Build implements ports.Worker.
func (c *Client) Build(ctx context.Context, req domain.BuildRequest) (ports.BuildStream, error) {
	stream, err := c.conn.NewStream(ctx, &buildStreamDesc, methodBuild, grpc.CallContentSubtype(CodecName))
	if err != nil {
		return nil, zerr.With(unreachable(err), "channel", c.channel)
	}
	req = req.Clone()
	if err := stream.SendMsg(&ClientMessage{Request: &req}); err != nil {
		return nil, zerr.With(unreachable(err), "channel", c.channel)
	}
	return &buildStream{stream: stream}, nil
}

// Ping implements ports.DaemonClient.
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Invoke(ctx, methodPing, &emptypb.Empty{}, &emptypb.Empty{})
}

// Status implements ports.DaemonClient.
func (c *Client) Status(ctx context.Context) (*ports.DaemonStatus, error) {
	status := new(ports.DaemonStatus)
	err := c.conn.Invoke(ctx, methodStatus, &statusRequest{}, status, grpc.CallContentSubtype(CodecName))
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Shutdown implements ports.DaemonClient.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.conn.Invoke(ctx, methodShutdown, &emptypb.Empty{}, &emptypb.Empty{})
}

// Healthy reports whether the worker service answers the standard health check as serving.
func (c *Client) Healthy(ctx context.Context) bool {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
}

// Close implements ports.Worker and ports.DaemonClient.
func (c *Client) Close() error {
	return c.conn.Close()
}

type buildStream struct {
	stream grpc.ClientStream
}

func (s *buildStream) Recv() (ports.StreamMessage, error) {
	var msg ServerMessage
	if err := s.stream.RecvMsg(&msg); err != nil {
		if errors.Is(err, io.EOF) {
			return ports.StreamMessage{}, io.EOF
		}
		return ports.StreamMessage{}, unreachable(err)
	}
	return ports.StreamMessage{Event: msg.Event, Outcome: msg.Outcome}, nil
}

func (s *buildStream) Ack(ack domain.Ack) error {
	if err := s.stream.SendMsg(&ClientMessage{Ack: &ack}); err != nil {
		return unreachable(err)
	}
	return nil
}

func (s *buildStream) CloseSend() error {
	return s.stream.CloseSend()
}

func unreachable(err error) error {
	return errors.Join(domain.ErrWorkerUnreachable, err)
}
