package ports

import (
	"context"
	"iter"
)

// WatchOp is the kind of change a WatchEvent reports.
type WatchOp uint8

// Change kinds. Chmod-only events are not reported.
const (
	OpCreate WatchOp = iota
	OpWrite
	OpRemove
	OpRename
)

var watchOpNames = [...]string{"create", "write", "remove", "rename"}

func (o WatchOp) String() string {
	if int(o) < len(watchOpNames) {
		return watchOpNames[o]
	}
	return "unknown"
}

// WatchEvent is one change below the watched root.
type WatchEvent struct {
	// Path is absolute.
	Path      string
	Operation WatchOp
}

// Watcher reports file changes below a project root so watch mode can rerun
// the reactor when a descriptor or gridmaven.yaml changes.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start watches root recursively, including directories created later.
	Start(ctx context.Context, root string) error
	// Stop releases the watch. Events ends after Stop.
	Stop() error
	Events() iter.Seq[WatchEvent]
}
