package logger

import (
	"context"
	"os"
	"strconv"

	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// Environment defaults, overridden by the --json and --verbose flags.
const (
	EnvFormat = "GRIDMAVEN_LOG_FORMAT"
	EnvDebug  = "GRIDMAVEN_DEBUG"
)

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return FromEnv(os.Getenv), nil
		},
	})
}

// FromEnv creates a Logger configured by EnvFormat ("json" or "pretty") and
// EnvDebug (any true value of strconv.ParseBool).
func FromEnv(getenv func(string) string) ports.Logger {
	l := New()
	if getenv(EnvFormat) == "json" {
		l.SetJSON(true)
	}
	if debug, err := strconv.ParseBool(getenv(EnvDebug)); err == nil && debug {
		l.SetVerbose(true)
	}
	return l
}
