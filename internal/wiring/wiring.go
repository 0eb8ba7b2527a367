// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/b3rserker/gridmaven/internal/adapters/artifacts"
	_ "github.com/b3rserker/gridmaven/internal/adapters/config"
	_ "github.com/b3rserker/gridmaven/internal/adapters/daemon"
	_ "github.com/b3rserker/gridmaven/internal/adapters/descriptor"
	_ "github.com/b3rserker/gridmaven/internal/adapters/detector"
	_ "github.com/b3rserker/gridmaven/internal/adapters/fs"
	_ "github.com/b3rserker/gridmaven/internal/adapters/logger"
	_ "github.com/b3rserker/gridmaven/internal/adapters/metrics"
	_ "github.com/b3rserker/gridmaven/internal/adapters/shell"
	_ "github.com/b3rserker/gridmaven/internal/adapters/watcher"
	// Register app nodes.
	_ "github.com/b3rserker/gridmaven/internal/app"
)
