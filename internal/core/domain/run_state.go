package domain

import "go.trai.ch/zerr"

// RunState is the state of one orchestration run.
type RunState string

const (
	// RunInit loads the ledger and decides on a full or incremental build.
	RunInit RunState = "init"
	// RunResolvingGraph parses the reactor.
	RunResolvingGraph RunState = "resolving_graph"
	// RunStagingSource uploads module sources to the artifact store.
	RunStagingSource RunState = "staging_source"
	// RunDispatchingModules builds the modules level by level.
	RunDispatchingModules RunState = "dispatching_modules"
	// RunAggregating combines the module results.
	RunAggregating RunState = "aggregating"
	// RunFinalizing persists outcomes and the ledger.
	RunFinalizing RunState = "finalizing"
	// RunDone is the terminal state of a completed run.
	RunDone RunState = "done"
	// RunAborted is the terminal state of a run ended by a fatal error.
	RunAborted RunState = "aborted"
)

var runTransitions = map[RunState]RunState{
	RunInit:               RunResolvingGraph,
	RunResolvingGraph:     RunStagingSource,
	RunStagingSource:      RunDispatchingModules,
	RunDispatchingModules: RunAggregating,
	RunAggregating:        RunFinalizing,
	RunFinalizing:         RunDone,
}

// IsTerminal reports whether no further transition is possible.
func (s RunState) IsTerminal() bool {
	return s == RunDone || s == RunAborted
}

// Next validates a transition from s to to and returns to.
// Aborted is reachable from every non terminal state.
func (s RunState) Next(to RunState) (RunState, error) {
	if s.IsTerminal() {
		return s, zerr.With(zerr.With(zerr.Wrap(ErrInvalidTransition, string(s)+" -> "+string(to)), "from", string(s)), "to", string(to))
	}
	if to == RunAborted || runTransitions[s] == to {
		return to, nil
	}
	return s, zerr.With(zerr.With(zerr.Wrap(ErrInvalidTransition, string(s)+" -> "+string(to)), "from", string(s)), "to", string(to))
}
