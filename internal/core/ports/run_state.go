package ports

import "github.com/b3rserker/gridmaven/internal/core/domain"

// RunStateStore persists the state carried from one run to the next.
//
//go:generate mockgen -source=run_state.go -destination=mocks/mock_run_state.go -package=mocks
type RunStateStore interface {
	// Ledger returns the persisted ledger, or an empty one.
	Ledger() (*domain.UnbuiltModuleLedger, error)
	// UpdateLedger applies fn to the persisted ledger and writes the result back atomically.
	UpdateLedger(fn func(l *domain.UnbuiltModuleLedger) error) error

	// NextRunNumber increments and returns the run counter.
	NextRunNumber() (int, error)

	// Records returns the module records of the previous run.
	Records() ([]domain.ModuleRecord, error)
	// PutRecords replaces the module records.
	PutRecords(records []domain.ModuleRecord) error

	// BuildInfo returns the last published build of a module. It returns nil, nil if there is none.
	BuildInfo(module string) (*domain.BuildInfo, error)
	// PutBuildInfo stores the last published build of a module.
	PutBuildInfo(info domain.BuildInfo) error

	// AppendHistory appends one outcome to the history of a module.
	AppendHistory(module string, entry domain.HistoryEntry) error
	// History returns the recorded outcomes of a module, oldest first.
	History(module string) ([]domain.HistoryEntry, error)
}
