package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// The same span stream drives either the interactive TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once the module graph is resolved.
	// modules: all module ids in build order
	// deps: module id -> upstream ids
	// targets: module ids in the build set
	OnPlanEmit(modules []string, deps map[string][]string, targets []string)

	// OnModuleStart is called when a span begins.
	OnModuleStart(spanID, parentID, name string, startTime time.Time)

	// OnModuleLog is called when a span emits build output.
	// data may contain partial lines or ANSI sequences.
	OnModuleLog(spanID string, data []byte)

	// OnModuleComplete is called when a span finishes. err is nil on success.
	OnModuleComplete(spanID string, endTime time.Time, err error)
}
