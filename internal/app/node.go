package app

import (
	"context"

	"github.com/b3rserker/gridmaven/internal/adapters/artifacts"
	"github.com/b3rserker/gridmaven/internal/adapters/config" //nolint:depguard // Wired in app layer
	"github.com/b3rserker/gridmaven/internal/adapters/daemon"
	"github.com/b3rserker/gridmaven/internal/adapters/descriptor"
	"github.com/b3rserker/gridmaven/internal/adapters/detector"
	"github.com/b3rserker/gridmaven/internal/adapters/fs"
	"github.com/b3rserker/gridmaven/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"github.com/b3rserker/gridmaven/internal/adapters/metrics"
	"github.com/b3rserker/gridmaven/internal/adapters/shell"
	"github.com/b3rserker/gridmaven/internal/adapters/watcher"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/grindlemire/graft"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			descriptor.NodeID,
			fs.HasherNodeID,
			shell.NodeID,
			daemon.NodeID,
			artifacts.NodeID,
			metrics.NodeID,
			watcher.NodeID,
			detector.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := graft.Dep[ports.GraphResolver](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.SourceHasher](ctx)
	if err != nil {
		return nil, err
	}
	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}
	connector, err := graft.Dep[*daemon.Connector](ctx)
	if err != nil {
		return nil, err
	}
	stores, err := graft.Dep[*artifacts.Opener](ctx)
	if err != nil {
		return nil, err
	}
	recorder, err := graft.Dep[*metrics.Recorder](ctx)
	if err != nil {
		return nil, err
	}
	watchers, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}
	mode, err := graft.Dep[detector.OutputMode](ctx)
	if err != nil {
		return nil, err
	}

	return New(Deps{
		Loader:    loader,
		Logger:    log,
		Resolver:  resolver,
		Hasher:    hasher,
		Executor:  executor,
		Connector: connector,
		Stores:    stores,
		Metrics:   recorder,
		Watchers:  watchers,
		Mode:      mode,
	}), nil
}

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}
