package ports

import (
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

// Metrics records build measurements.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	ObserveStep(module, step string, elapsed time.Duration)
	ObserveModule(module string, result domain.Result, elapsed time.Duration)
	ObserveRun(result domain.Result, elapsed time.Duration)
	ObserveStaging(module string, elapsed time.Duration, err error)
}
