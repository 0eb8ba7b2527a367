package ports

import (
	"context"
	"io"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

// Executor defines the interface for running build tool commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd and streams its output.
	// A non-zero exit is returned as an error carrying the exit code.
	Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error
}
