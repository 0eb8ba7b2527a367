package ports

import (
	"context"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

//go:generate mockgen -source=worker.go -destination=mocks/mock_worker.go -package=mocks

// StreamMessage is one message received from a build stream.
// Exactly one of Event and Outcome is set.
type StreamMessage struct {
	Event   *domain.Event
	Outcome *domain.BuildOutcome
}

// BuildStream is the orchestrator side of one remote module build.
type BuildStream interface {
	// Recv blocks until the next message arrives. It returns io.EOF once the worker closed the stream.
	Recv() (StreamMessage, error)
	// Ack answers the last lifecycle event.
	Ack(ack domain.Ack) error
	// CloseSend tells the worker no further acks will be sent.
	CloseSend() error
}

// Worker is a connection to one worker process.
type Worker interface {
	// Channel returns the channel identity the worker was connected on.
	Channel() string
	// Build starts building req and returns its event stream.
	// Cancelling ctx cancels the remote build.
	Build(ctx context.Context, req domain.BuildRequest) (BuildStream, error)
	// Close releases the connection.
	Close() error
}

// WorkerFactory opens worker connections by channel.
type WorkerFactory interface {
	// Connect returns a worker reachable on channel, starting a local worker process if needed.
	Connect(ctx context.Context, channel string) (Worker, error)
}
