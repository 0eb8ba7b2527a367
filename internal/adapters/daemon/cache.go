package daemon

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
)

// FetchCache remembers archives already expanded on this worker, so the
// builds of one run share the reactor tree and upstream outputs.
// Concurrent fetches into the same directory wait for the first one.
type FetchCache struct {
	mu      sync.Mutex
	entries map[string]*fetchEntry // destination dir -> entry
}

type fetchEntry struct {
	done chan struct{}
	err  error
}

// NewFetchCache creates a new FetchCache instance.
func NewFetchCache() *FetchCache {
	return &FetchCache{
		entries: make(map[string]*fetchEntry),
	}
}

// Fetch runs fetch for dest unless an earlier call for dest succeeded or is in flight.
// A failed fetch is forgotten so the next caller tries again.
func (c *FetchCache) Fetch(ctx context.Context, dest string, fetch func(ctx context.Context) error) error {
	dest = filepath.Clean(dest)

	c.mu.Lock()
	entry, exists := c.entries[dest]
	if !exists {
		entry = &fetchEntry{done: make(chan struct{})}
		c.entries[dest] = entry
	}
	c.mu.Unlock()

	if exists {
		select {
		case <-entry.done:
			return entry.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	entry.err = fetch(ctx)
	if entry.err != nil {
		c.mu.Lock()
		delete(c.entries, dest)
		c.mu.Unlock()
	}
	close(entry.done)
	return entry.err
}

// Evict forgets every entry at or below dir.
func (c *FetchCache) Evict(dir string) {
	dir = filepath.Clean(dir)
	prefix := dir + string(filepath.Separator)

	c.mu.Lock()
	defer c.mu.Unlock()
	for dest := range c.entries {
		if dest == dir || strings.HasPrefix(dest, prefix) {
			delete(c.entries, dest)
		}
	}
}

// Len returns the number of remembered fetches.
func (c *FetchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
