package telemetry

import (
	"context"
	"errors"

	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Bridge implements sdktrace.SpanProcessor and forwards module spans to a Renderer.
// Spans without AttrModule, such as the run span, are not forwarded.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart implements sdktrace.SpanProcessor.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}
	sc := s.SpanContext()
	module, ok := moduleOf(s.Attributes())
	if !sc.IsValid() || !ok {
		return
	}

	var parentID string
	if p := trace.SpanFromContext(parent).SpanContext(); p.IsValid() {
		parentID = p.SpanID().String()
	}
	b.renderer.OnModuleStart(sc.SpanID().String(), parentID, module, s.StartTime())
}

// OnEnd implements sdktrace.SpanProcessor.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}
	sc := s.SpanContext()
	if _, ok := moduleOf(s.Attributes()); !sc.IsValid() || !ok {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "module failed"
		}
		err = errors.New(desc)
	}
	b.renderer.OnModuleComplete(sc.SpanID().String(), s.EndTime(), err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(context.Context) error {
	return nil
}

func moduleOf(attrs []attribute.KeyValue) (string, bool) {
	for _, kv := range attrs {
		if kv.Key == AttrModule {
			return kv.Value.AsString(), true
		}
	}
	return "", false
}
