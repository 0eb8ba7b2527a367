package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
)

// DefaultDebounceWindow is how long the trigger waits for a burst of saves to settle.
const DefaultDebounceWindow = 300 * time.Millisecond

// Relevant reports whether a change to path can alter the build graph:
// a module descriptor or the project configuration.
func Relevant(path string) bool {
	switch filepath.Base(path) {
	case domain.DescriptorYAML, domain.DescriptorHCL, domain.ConfigFileName:
		return true
	default:
		return false
	}
}

// Trigger turns descriptor changes below a root into build runs.
type Trigger struct {
	watcher ports.Watcher
	logger  ports.Logger
	window  time.Duration
}

// NewTrigger creates a trigger. A non-positive window selects DefaultDebounceWindow.
func NewTrigger(w ports.Watcher, logger ports.Logger, window time.Duration) *Trigger {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Trigger{watcher: w, logger: logger, window: window}
}

// Run watches root and calls run with the changed paths after each settled
// burst of relevant changes. Runs never overlap; changes arriving during a
// run are collected for the next one. Run returns when ctx is done.
func (t *Trigger) Run(ctx context.Context, root string, run func(ctx context.Context, changed []string)) error {
	if err := t.watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() { _ = t.watcher.Stop() }()

	batches := make(chan []string, 1)
	deb := NewDebouncer(t.window, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})
	defer deb.Stop()

	go func() {
		for ev := range t.watcher.Events() {
			if Relevant(ev.Path) {
				t.logger.Debug("descriptor changed", "path", ev.Path, "op", ev.Operation.String())
				deb.Add(ev.Path)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-batches:
			t.logger.Info("re-running build", "changed", len(changed))
			run(ctx, changed)
		}
	}
}
