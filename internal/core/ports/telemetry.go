package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan announces the modules of a run in build order.
	// deps maps a module id to its upstream ids and targets lists the modules in the build set.
	EmitPlan(ctx context.Context, modules []string, deps map[string][]string, targets []string)
}

// Span represents a unit of work.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	// Module is the id of the module the span builds, if any.
	Module string
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithModule tags a span with the module it builds.
func WithModule(id string) SpanOption {
	return func(c *SpanConfig) {
		c.Module = id
	}
}
