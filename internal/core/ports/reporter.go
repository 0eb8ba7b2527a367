package ports

import (
	"context"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks

// BuildContext is handed to every reporter hook of one module build.
type BuildContext interface {
	// Context is cancelled when the build ends or is aborted.
	Context() context.Context
	// Request is the request being built.
	Request() domain.BuildRequest
	// Channel is the worker channel the build runs on.
	Channel() string
	// Go registers a side task. The build waits for every task before it
	// completes, and a failing task fails the build.
	Go(name string, fn func(ctx context.Context) error)
}

// Reporter observes the lifecycle of module builds.
// Hooks of one build are called in lifecycle order. An error aborts the build.
type Reporter interface {
	Name() string
	PreBuild(bc BuildContext) error
	PreModule(bc BuildContext, ev domain.Event) error
	PreExecute(bc BuildContext, ev domain.Event) error
	PostExecute(bc BuildContext, ev domain.Event, elapsed time.Duration) error
	PostModule(bc BuildContext, ev domain.Event) error
	ReportGenerated(bc BuildContext, ev domain.Event) error
	PostBuild(bc BuildContext, outcome *domain.BuildOutcome) error
}
