// Package watcher watches a reactor tree and re-runs the build when a
// descriptor or the project configuration changes.
package watcher

import (
	"slices"
	"sync"
	"time"
)

// Debouncer collects paths and hands them over in one sorted batch once no
// new path arrived for the window.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a debouncer calling callback with each batch.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	paths := d.take()
	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Flush hands over the pending batch now, on the calling goroutine.
// It does nothing if the window already expired.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil && !d.timer.Stop() {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	d.fire()
}

// Stop discards pending paths.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}

func (d *Debouncer) take() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.timer = nil
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	clear(d.pending)
	slices.Sort(paths)
	return paths
}
