package descriptor

import (
	"context"

	"github.com/b3rserker/gridmaven/internal/adapters/logger"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the graph resolver Graft node.
const NodeID graft.ID = "adapter.graph_resolver"

func init() {
	graft.Register(graft.Node[ports.GraphResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.GraphResolver, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(log), nil
		},
	})
}
