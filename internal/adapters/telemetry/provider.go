package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AttrModule is the span attribute naming the module a span builds.
const AttrModule = "gridmaven.module"

// LogBufferSize determines the size of the async output channel.
const LogBufferSize = 4096

// OTelTracer implements ports.Tracer with OpenTelemetry. Build output written
// to its spans is batched and streamed to the renderer, when one is set.
type OTelTracer struct {
	tracer trace.Tracer

	mu       sync.RWMutex
	renderer ports.Renderer
	logChan  chan MsgModuleLog
	done     chan struct{}
	closed   bool
}

// NewOTelTracer creates a tracer from the global provider.
func NewOTelTracer(name string) *OTelTracer {
	t := &OTelTracer{
		tracer:  otel.Tracer(name),
		logChan: make(chan MsgModuleLog, LogBufferSize),
		done:    make(chan struct{}),
	}
	go t.runLoop()
	return t
}

// WithRenderer streams span output and plans to r.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

func (t *OTelTracer) runLoop() {
	defer close(t.done)
	for msg := range t.logChan {
		if r := t.currentRenderer(); r != nil {
			r.OnModuleLog(msg.SpanID, msg.Data)
		}
	}
}

func (t *OTelTracer) currentRenderer() ports.Renderer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.renderer
}

// Shutdown drains pending output and stops the background forwarder.
func (t *OTelTracer) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.logChan)
	}
	t.mu.Unlock()

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start creates a new span. A module span carries AttrModule.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var startOpts []trace.SpanStartOption
	if cfg.Module != "" {
		startOpts = append(startOpts, trace.WithAttributes(attribute.String(AttrModule, cfg.Module)))
	}
	ctx, span := t.tracer.Start(ctx, name, startOpts...)

	s := &OTelSpan{span: span}
	if t.currentRenderer() != nil {
		spanID := span.SpanContext().SpanID().String()
		s.batcher = NewBatchProcessor(0, 0, func(data []byte) { t.forward(spanID, data) })
	}
	return ctx, s
}

// forward queues output for the renderer and drops it when the queue is full
// so a slow terminal never stalls a build.
func (t *OTelTracer) forward(spanID string, data []byte) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.logChan <- MsgModuleLog{SpanID: spanID, Data: data}:
	default:
	}
}

// EmitPlan records the plan on the current span and hands it to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, modules []string, deps map[string][]string, targets []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("modules", modules),
			attribute.StringSlice("targets", targets),
		))
	}
	if r := t.currentRenderer(); r != nil {
		r.OnPlanEmit(modules, deps, targets)
	}
}

// OTelSpan implements ports.Span.
type OTelSpan struct {
	span    trace.Span
	batcher *BatchProcessor
}

// End flushes buffered output and completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError marks the span as failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	case fmt.Stringer:
		s.span.SetAttributes(attribute.String(key, v.String()))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write takes build output. Without a renderer it becomes a span event.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("output", trace.WithAttributes(attribute.String("data", string(p))))
	return len(p), nil
}

// SpanID returns the hex id of the span.
func (s *OTelSpan) SpanID() string {
	return s.span.SpanContext().SpanID().String()
}
