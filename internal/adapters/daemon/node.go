package daemon

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the worker connector Graft node.
const NodeID graft.ID = "adapter.daemon"

func init() {
	graft.Register(graft.Node[*Connector]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Connector, error) {
			return NewConnector()
		},
	})
}
