package orchestrator

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

// AggregateReport collects module outcomes from concurrent dispatch goroutines.
type AggregateReport struct {
	mu       sync.Mutex
	outcomes map[string]domain.BuildOutcome
	order    []string
	counts   map[domain.Result]int
}

// NewAggregateReport creates an empty report.
func NewAggregateReport() *AggregateReport {
	return &AggregateReport{
		outcomes: make(map[string]domain.BuildOutcome),
		counts:   make(map[domain.Result]int),
	}
}

// Record stores the outcome of one module. A module recorded again replaces
// its earlier outcome and keeps its place in the completion order.
func (a *AggregateReport) Record(o domain.BuildOutcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if prev, ok := a.outcomes[o.Module]; ok {
		a.counts[prev.Result]--
	} else {
		a.order = append(a.order, o.Module)
	}
	a.outcomes[o.Module] = o
	a.counts[o.Result]++
}

// Outcome returns the recorded outcome of a module.
func (a *AggregateReport) Outcome(module string) (domain.BuildOutcome, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	o, ok := a.outcomes[module]
	return o, ok
}

// Outcomes returns every outcome in completion order.
func (a *AggregateReport) Outcomes() []domain.BuildOutcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.BuildOutcome, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.outcomes[id])
	}
	return out
}

// Counts returns the number of modules per result.
func (a *AggregateReport) Counts() map[domain.Result]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	counts := maps.Clone(a.counts)
	maps.DeleteFunc(counts, func(_ domain.Result, n int) bool { return n == 0 })
	return counts
}

// Results returns the recorded results in completion order.
func (a *AggregateReport) Results() []domain.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Result, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.outcomes[id].Result)
	}
	return out
}

// RunReport is the result of one orchestration run.
type RunReport struct {
	RunNumber int
	// State is RunDone, or RunAborted when the run ended before aggregation.
	State domain.RunState
	// Result is the composite result of the run.
	Result domain.Result
	// Cause explains an aborted run.
	Cause string

	// Modules holds one outcome per reactor module in completion order.
	Modules []domain.BuildOutcome
	Counts  map[domain.Result]int
	// BuildSet lists the modules selected for building, in build order.
	BuildSet []string
	// FullBuild is set when every module was selected.
	FullBuild bool
	Cuts      []domain.CycleCut
	// Triggered lists the downstream jobs that were enqueued.
	Triggered []string
	Duration  time.Duration
}

// Outcome returns the outcome of a module.
func (r *RunReport) Outcome(module string) (domain.BuildOutcome, bool) {
	i := slices.IndexFunc(r.Modules, func(o domain.BuildOutcome) bool { return o.Module == module })
	if i < 0 {
		return domain.BuildOutcome{}, false
	}
	return r.Modules[i], true
}
