package artifacts

import (
	"context"

	"github.com/b3rserker/gridmaven/internal/adapters/logger"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the artifact store opener Graft node.
const NodeID graft.ID = "adapter.artifacts"

// Opener opens the artifact store of a configured endpoint.
type Opener struct {
	logger ports.Logger
}

// NewOpener creates an Opener whose stores log to logger.
func NewOpener(logger ports.Logger) *Opener {
	return &Opener{logger: logger}
}

// Open returns a store talking to endpoint.
func (o *Opener) Open(endpoint string) ports.ArtifactStore {
	return Open(endpoint, o.logger)
}

func init() {
	graft.Register(graft.Node[*Opener]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Opener, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewOpener(log), nil
		},
	})
}
