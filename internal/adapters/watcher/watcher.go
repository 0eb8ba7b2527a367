package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

var skippedDirs = map[string]bool{
	".git":              true,
	".jj":               true,
	"node_modules":      true,
	domain.StateDirName: true,
}

const eventBuffer = 100

// Watcher watches a directory tree recursively with fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	skip      map[string]bool
	events    chan ports.WatchEvent
	stopOnce  sync.Once
}

// NewWatcher creates a watcher. Directories named in skip are not descended
// into, in addition to VCS and state directories.
func NewWatcher(logger ports.Logger, skip ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	w := &Watcher{
		fsWatcher: fw,
		logger:    logger,
		skip:      make(map[string]bool, len(skippedDirs)+len(skip)),
		events:    make(chan ports.WatchEvent, eventBuffer),
	}
	for name := range skippedDirs {
		w.skip[name] = true
	}
	for _, name := range skip {
		if name != "" {
			w.skip[name] = true
		}
	}
	return w, nil
}

// Start watches every directory below root and forwards events until ctx is
// done or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range w.dirs(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}
	go w.loop(ctx)
	return nil
}

// Stop closes the underlying watcher. Events ends once pending events are drained.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() { err = w.fsWatcher.Close() })
	return err
}

// Events yields events until the watcher stopped.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range w.events {
			if !yield(ev) {
				return
			}
		}
	}
}

func (w *Watcher) dirs(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && w.skip[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			op, ok := convert(ev.Op)
			if !ok {
				continue
			}
			select {
			case w.events <- ports.WatchEvent{Path: ev.Name, Operation: op}:
			case <-ctx.Done():
				return
			}
			if op == ports.OpCreate {
				w.watchNew(ev.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err.Error())
		}
	}
}

// watchNew adds a directory created after Start, with its subdirectories.
func (w *Watcher) watchNew(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.skip[info.Name()] {
		return
	}
	for dir := range w.dirs(path) {
		_ = w.fsWatcher.Add(dir)
	}
}

func convert(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Write):
		return ports.OpWrite, true
	case op.Has(fsnotify.Create):
		return ports.OpCreate, true
	case op.Has(fsnotify.Remove):
		return ports.OpRemove, true
	case op.Has(fsnotify.Rename):
		return ports.OpRename, true
	default:
		return 0, false
	}
}
