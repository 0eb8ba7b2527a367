package domain

import (
	"maps"
	"slices"
)

// UnbuiltModuleLedger is the set of modules that had pending changes but were
// not built, carried to the next run to force their rebuild.
type UnbuiltModuleLedger struct {
	Modules map[string]struct{} `json:"modules"`
	// NeedsFullBuild forces the next run to rebuild every module.
	NeedsFullBuild bool `json:"needs_full_build,omitempty"`
}

// NewLedger creates a new empty ledger.
func NewLedger() *UnbuiltModuleLedger {
	return &UnbuiltModuleLedger{Modules: make(map[string]struct{})}
}

// Add records modules as unbuilt.
func (l *UnbuiltModuleLedger) Add(ids ...string) {
	if l.Modules == nil {
		l.Modules = make(map[string]struct{}, len(ids))
	}
	for _, id := range ids {
		l.Modules[id] = struct{}{}
	}
}

// Remove clears modules from the ledger.
func (l *UnbuiltModuleLedger) Remove(ids ...string) {
	for _, id := range ids {
		delete(l.Modules, id)
	}
}

// Contains reports whether the module is recorded as unbuilt.
func (l *UnbuiltModuleLedger) Contains(id string) bool {
	_, ok := l.Modules[id]
	return ok
}

// Len returns the number of unbuilt modules.
func (l *UnbuiltModuleLedger) Len() int {
	return len(l.Modules)
}

// IDs returns the unbuilt module ids in lexical order.
func (l *UnbuiltModuleLedger) IDs() []string {
	return slices.Sorted(maps.Keys(l.Modules))
}

// Clone returns an independent copy.
func (l *UnbuiltModuleLedger) Clone() *UnbuiltModuleLedger {
	return &UnbuiltModuleLedger{
		Modules:        maps.Clone(l.Modules),
		NeedsFullBuild: l.NeedsFullBuild,
	}
}
