package ports

import (
	"context"
	"time"
)

//go:generate mockgen -source=daemon.go -destination=mocks/mock_daemon.go -package=mocks

// DaemonStatus represents the current state of a worker daemon.
type DaemonStatus struct {
	Running       bool          `json:"running"`
	PID           int           `json:"pid"`
	Uptime        time.Duration `json:"uptime"`
	LastActivity  time.Time     `json:"last_activity"`
	IdleRemaining time.Duration `json:"idle_remaining"`
	ActiveBuilds  int           `json:"active_builds"`
}

// DaemonClient defines the interface for controlling a worker daemon.
type DaemonClient interface {
	// Ping checks if the daemon is alive and resets the inactivity timer.
	Ping(ctx context.Context) error

	// Status returns the current daemon status.
	Status(ctx context.Context) (*DaemonStatus, error)

	// Shutdown requests a graceful daemon shutdown.
	Shutdown(ctx context.Context) error

	// Close releases client resources.
	Close() error
}

// DaemonConnector manages local worker daemons from the CLI perspective.
type DaemonConnector interface {
	// Connect returns a client to the daemon of channel, spawning it if necessary.
	Connect(ctx context.Context, channel string) (DaemonClient, error)

	// Dial returns a client to an already running daemon.
	Dial(ctx context.Context, channel string) (DaemonClient, error)

	// IsRunning checks if the daemon of channel is currently running.
	IsRunning(channel string) bool

	// Spawn starts a new daemon process for channel in the background.
	Spawn(ctx context.Context, channel string) error
}
