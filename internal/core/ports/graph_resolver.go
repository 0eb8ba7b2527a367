package ports

import (
	"context"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

// GraphResolver reads module descriptors into a sealed build graph.
//
//go:generate mockgen -source=graph_resolver.go -destination=mocks/mock_graph_resolver.go -package=mocks
type GraphResolver interface {
	// Resolve reads the root descriptor at location, a descriptor file or a
	// directory holding one, and descends into child modules when recursive is set.
	Resolve(ctx context.Context, location string, recursive bool) (*domain.BuildGraph, error)
}
