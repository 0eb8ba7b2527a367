// Package metrics exposes build measurements in the Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/zerr"
)

const namespace = "gridmaven"

var _ ports.Metrics = (*Recorder)(nil)

// Recorder implements ports.Metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	stepDuration    *prometheus.HistogramVec
	moduleDuration  *prometheus.HistogramVec
	moduleResults   *prometheus.CounterVec
	runDuration     prometheus.Histogram
	runResults      *prometheus.CounterVec
	stagingDuration prometheus.Histogram
	stagingErrors   *prometheus.CounterVec
}

// NewRecorder creates a Recorder with every collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of build steps in seconds per module and step",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
			},
			[]string{"module", "step"},
		),
		moduleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "module_duration_seconds",
				Help:      "Duration of module builds in seconds per result",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
			},
			[]string{"result"},
		),
		moduleResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "module_builds_total",
				Help:      "Total number of module builds per module and result",
			},
			[]string{"module", "result"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of orchestrated runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
			},
		),
		runResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of runs per composite result",
			},
			[]string{"result"},
		),
		stagingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "staging_duration_seconds",
				Help:      "Duration of source staging per module in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		stagingErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "staging_errors_total",
				Help:      "Total number of failed source uploads per module",
			},
			[]string{"module"},
		),
	}
	r.registry.MustRegister(
		r.stepDuration,
		r.moduleDuration,
		r.moduleResults,
		r.runDuration,
		r.runResults,
		r.stagingDuration,
		r.stagingErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveStep records the duration of one build step.
func (r *Recorder) ObserveStep(module, step string, elapsed time.Duration) {
	r.stepDuration.WithLabelValues(module, step).Observe(elapsed.Seconds())
}

// ObserveModule records the outcome of one module build.
func (r *Recorder) ObserveModule(module string, result domain.Result, elapsed time.Duration) {
	r.moduleResults.WithLabelValues(module, result.String()).Inc()
	if result != domain.ResultNotBuilt {
		r.moduleDuration.WithLabelValues(result.String()).Observe(elapsed.Seconds())
	}
}

// ObserveRun records the composite result of a run.
func (r *Recorder) ObserveRun(result domain.Result, elapsed time.Duration) {
	r.runResults.WithLabelValues(result.String()).Inc()
	r.runDuration.Observe(elapsed.Seconds())
}

// ObserveStaging records one source upload.
func (r *Recorder) ObserveStaging(module string, elapsed time.Duration, err error) {
	r.stagingDuration.Observe(elapsed.Seconds())
	if err != nil {
		r.stagingErrors.WithLabelValues(module).Inc()
	}
}

// Handler serves the registry in the exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes the metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen for metrics"), "addr", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, "metrics server failed")
	}
	return nil
}
