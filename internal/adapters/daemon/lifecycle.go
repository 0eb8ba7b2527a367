package daemon

import (
	"sync"
	"time"
)

// Lifecycle shuts an idle worker down after a period without activity.
// A worker with builds in flight is never idle.
type Lifecycle struct {
	mu           sync.Mutex
	timer        *time.Timer
	startTime    time.Time
	lastActivity time.Time
	timeout      time.Duration
	active       int
	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

// NewLifecycle creates a new lifecycle manager with the given timeout.
func NewLifecycle(timeout time.Duration) *Lifecycle {
	now := time.Now()
	l := &Lifecycle{
		startTime:    now,
		lastActivity: now,
		timeout:      timeout,
		shutdownChan: make(chan struct{}),
	}
	l.timer = time.AfterFunc(timeout, l.expire)
	return l
}

// ResetTimer resets the inactivity timer. Called on every activity.
func (l *Lifecycle) ResetTimer() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastActivity = time.Now()
	l.timer.Reset(l.timeout)
}

// BeginBuild marks a build as started. The inactivity timer is held until
// every started build has ended.
func (l *Lifecycle) BeginBuild() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active++
	l.lastActivity = time.Now()
	l.timer.Stop()
}

// EndBuild marks a build as finished and restarts the timer once no build is left.
func (l *Lifecycle) EndBuild() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = max(l.active-1, 0)
	l.lastActivity = time.Now()
	if l.active == 0 {
		l.timer.Reset(l.timeout)
	}
}

// ActiveBuilds returns the number of builds in flight.
func (l *Lifecycle) ActiveBuilds() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// IdleRemaining returns the duration until auto-shutdown.
func (l *Lifecycle) IdleRemaining() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active > 0 {
		return l.timeout
	}
	remaining := l.timeout - time.Since(l.lastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Uptime returns how long the daemon has been running.
func (l *Lifecycle) Uptime() time.Duration {
	return time.Since(l.startTime)
}

// LastActivity returns the timestamp of the last activity.
func (l *Lifecycle) LastActivity() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastActivity
}

// ShutdownChan returns a channel that closes when shutdown is triggered.
func (l *Lifecycle) ShutdownChan() <-chan struct{} {
	return l.shutdownChan
}

func (l *Lifecycle) expire() {
	l.mu.Lock()
	busy := l.active > 0
	l.mu.Unlock()
	if !busy {
		l.triggerShutdown()
	}
}

func (l *Lifecycle) triggerShutdown() {
	l.shutdownOnce.Do(func() {
		close(l.shutdownChan)
	})
}

// Shutdown stops the timer and triggers shutdown.
func (l *Lifecycle) Shutdown() {
	l.timer.Stop()
	l.triggerShutdown()
}
