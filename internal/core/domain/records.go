package domain

import "slices"

// ModuleRecord is the persisted identity of a module across runs.
// Build history attaches to a record, so records are updated in place and
// never deleted: a module that leaves the reactor is only disabled.
type ModuleRecord struct {
	ID           string     `json:"id"`
	Coordinate   Coordinate `json:"coordinate"`
	RelativePath string     `json:"relative_path"`
	FirstBuild   int        `json:"first_build"`
	Disabled     bool       `json:"disabled,omitempty"`
}

// Reconciliation is the result of matching a freshly resolved graph against
// the previous run's module records.
type Reconciliation struct {
	Records []ModuleRecord
	Added   []string
	Removed []string
	// Dirty is set when the module set or a module identity changed.
	Dirty bool
}

// Reconcile updates previous records in place for modules present in graph,
// disables records for modules that disappeared and creates records for new
// modules with FirstBuild set to runNumber. The graph modules receive their
// FirstBuild from the matching record.
func Reconcile(previous []ModuleRecord, graph *BuildGraph, runNumber int) Reconciliation {
	byID := make(map[string]int, len(previous))
	records := slices.Clone(previous)
	for i, r := range records {
		byID[r.ID] = i
	}

	var rec Reconciliation
	for _, id := range graph.IDs() {
		m, _ := graph.Module(id)
		i, ok := byID[id]
		if !ok {
			records = append(records, ModuleRecord{
				ID:           id,
				Coordinate:   m.Coordinate,
				RelativePath: m.RelativePath,
				FirstBuild:   runNumber,
			})
			byID[id] = len(records) - 1
			rec.Added = append(rec.Added, id)
			m.FirstBuild = runNumber
			continue
		}

		r := &records[i]
		if r.Disabled {
			r.Disabled = false
			rec.Added = append(rec.Added, id)
		}
		if r.Coordinate != m.Coordinate || r.RelativePath != m.RelativePath {
			r.Coordinate = m.Coordinate
			r.RelativePath = m.RelativePath
			rec.Dirty = true
		}
		m.FirstBuild = r.FirstBuild
	}

	for i := range records {
		r := &records[i]
		if _, ok := graph.Module(r.ID); ok || r.Disabled {
			continue
		}
		r.Disabled = true
		rec.Removed = append(rec.Removed, r.ID)
	}

	slices.SortFunc(records, func(a, b ModuleRecord) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	rec.Records = records
	rec.Dirty = rec.Dirty || len(rec.Added) > 0 || len(rec.Removed) > 0
	return rec
}
