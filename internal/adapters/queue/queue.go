// Package queue hands downstream jobs to the host job scheduler.
package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

const requestTimeout = 10 * time.Second

var (
	_ ports.HostQueue = (*HTTPQueue)(nil)
	_ ports.HostQueue = (*LogQueue)(nil)
)

// New returns the HTTP queue for url, or a LogQueue when url is empty.
func New(url string, logger ports.Logger) ports.HostQueue {
	if url == "" {
		return NewLogQueue(logger)
	}
	return NewHTTPQueue(url, nil)
}

type enqueueRequest struct {
	Job string `json:"job"`
}

// HTTPQueue POSTs {"job": name} to the scheduler endpoint.
type HTTPQueue struct {
	url  string
	http *http.Client
}

// NewHTTPQueue creates a queue posting to url.
func NewHTTPQueue(url string, httpClient *http.Client) *HTTPQueue {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &HTTPQueue{url: url, http: httpClient}
}

// Enqueue implements ports.HostQueue.
func (q *HTTPQueue) Enqueue(ctx context.Context, job string) error {
	body, err := json.Marshal(enqueueRequest{Job: job})
	if err != nil {
		return zerr.Wrap(err, "failed to encode enqueue request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.url, bytes.NewReader(body))
	if err != nil {
		return zerr.With(errors.Join(domain.ErrEnqueueFailed, err), "job", job)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.http.Do(req)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrEnqueueFailed, err), "job", job)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrEnqueueFailed, "scheduler rejected job"), "job", job), "status", resp.StatusCode)
	}
	return nil
}

// LogQueue only logs the jobs it would enqueue.
type LogQueue struct {
	logger ports.Logger
}

// NewLogQueue creates a LogQueue.
func NewLogQueue(logger ports.Logger) *LogQueue {
	return &LogQueue{logger: logger}
}

// Enqueue implements ports.HostQueue.
func (q *LogQueue) Enqueue(_ context.Context, job string) error {
	q.logger.Info("downstream job triggered", "job", job)
	return nil
}
