// Package pool bounds and recycles worker connections across the modules of a run.
package pool

import (
	"context"
	"errors"
	"sync"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultMaxWorkers is the bound used when none is configured.
const DefaultMaxWorkers = 5

// Handle is a worker connection leased from the pool.
type Handle struct {
	channel  string
	worker   ports.Worker
	lastUsed uint64
	leased   bool
}

// Channel returns the channel the worker was connected on.
func (h *Handle) Channel() string {
	return h.channel
}

// Worker returns the connection.
func (h *Handle) Worker() ports.Worker {
	return h.worker
}

// Pool hands out at most MaxWorkers live worker connections.
type Pool struct {
	mu     sync.Mutex
	max    int
	live   int
	idle   []*Handle
	tick   uint64
	closed bool
	// wake is closed and replaced whenever a slot or idle handle frees up.
	wake   chan struct{}
	logger ports.Logger
}

// New creates a pool. A non-positive maxWorkers selects DefaultMaxWorkers.
func New(maxWorkers int, logger ports.Logger) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	return &Pool{
		max:    maxWorkers,
		wake:   make(chan struct{}),
		logger: logger,
	}
}

// Acquire leases a worker on channel. It reuses the most recently used idle
// handle on the channel, connects through factory while below the bound,
// evicts the least recently used idle handle of another channel when full,
// and otherwise blocks until a handle is released or ctx is done.
func (p *Pool) Acquire(ctx context.Context, channel string, factory ports.WorkerFactory) (*Handle, error) {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, domain.ErrPoolClosed
		}
		if h := p.takeIdle(channel); h != nil {
			h.leased = true
			p.mu.Unlock()
			return h, nil
		}
		if p.live < p.max {
			p.live++
			p.mu.Unlock()
			return p.connect(ctx, channel, factory)
		}
		if victim := p.takeLRU(); victim != nil {
			p.mu.Unlock()
			p.logger.Debug("evicting idle worker", "channel", victim.channel, "for", channel)
			_ = victim.worker.Close()
			return p.connect(ctx, channel, factory)
		}
		wake := p.wake
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-wake:
		}
	}
}

// Release returns h to the pool. Recycle keeps it for reuse; Discard closes it.
// Releasing a handle twice has no effect.
func (p *Pool) Release(h *Handle, disposition domain.Disposition) {
	if h == nil {
		return
	}
	p.mu.Lock()
	if !h.leased {
		p.mu.Unlock()
		return
	}
	h.leased = false

	if disposition == domain.Discard || p.closed {
		p.live--
		p.broadcast()
		p.mu.Unlock()
		p.logger.Debug("closing worker", "channel", h.channel, "disposition", disposition.String())
		_ = h.worker.Close()
		return
	}

	p.tick++
	h.lastUsed = p.tick
	p.idle = append(p.idle, h)
	p.broadcast()
	p.mu.Unlock()
}

// Close closes every idle handle and fails later Acquire calls.
// Leased handles are closed when released.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.live -= len(idle)
	p.broadcast()
	p.mu.Unlock()

	var errs []error
	for _, h := range idle {
		if err := h.worker.Close(); err != nil {
			errs = append(errs, zerr.With(err, "channel", h.channel))
		}
	}
	return errors.Join(errs...)
}

// Live returns the number of open connections, leased or idle.
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Idle returns the number of idle connections.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// connect fills a slot already counted in live.
func (p *Pool) connect(ctx context.Context, channel string, factory ports.WorkerFactory) (*Handle, error) {
	w, err := factory.Connect(ctx, channel)
	if err != nil {
		p.mu.Lock()
		p.live--
		p.broadcast()
		p.mu.Unlock()
		if errors.Is(err, domain.ErrWorkerUnreachable) {
			return nil, zerr.With(err, "channel", channel)
		}
		return nil, zerr.With(errors.Join(domain.ErrWorkerUnreachable, err), "channel", channel)
	}
	return &Handle{channel: channel, worker: w, leased: true}, nil
}

// takeIdle removes the most recently used idle handle on channel.
func (p *Pool) takeIdle(channel string) *Handle {
	best := -1
	for i, h := range p.idle {
		if h.channel == channel && (best < 0 || h.lastUsed > p.idle[best].lastUsed) {
			best = i
		}
	}
	return p.remove(best)
}

// takeLRU removes the least recently used idle handle.
func (p *Pool) takeLRU() *Handle {
	best := -1
	for i, h := range p.idle {
		if best < 0 || h.lastUsed < p.idle[best].lastUsed {
			best = i
		}
	}
	return p.remove(best)
}

func (p *Pool) remove(i int) *Handle {
	if i < 0 {
		return nil
	}
	h := p.idle[i]
	p.idle = append(p.idle[:i], p.idle[i+1:]...)
	return h
}

func (p *Pool) broadcast() {
	close(p.wake)
	p.wake = make(chan struct{})
}
