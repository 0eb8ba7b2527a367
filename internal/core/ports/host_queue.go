package ports

import "context"

// HostQueue is the host job scheduler that downstream jobs are handed to.
//
//go:generate mockgen -source=host_queue.go -destination=mocks/mock_host_queue.go -package=mocks
type HostQueue interface {
	// Enqueue schedules a run of job.
	Enqueue(ctx context.Context, job string) error
}
