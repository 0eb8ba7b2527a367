package domain

import (
	"cmp"
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// CycleCut records an upstream edge dropped while breaking a cycle.
// From depended on To, and To was already on the path being expanded.
type CycleCut struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// BuildGraph is one snapshot of the reactor: the module set, its cycle-free
// upstream edges and a dependency level per module.
type BuildGraph struct {
	modules map[string]*Module
	order   []*Module
	cuts    []CycleCut
}

// NewBuildGraph creates a new empty BuildGraph.
func NewBuildGraph() *BuildGraph {
	return &BuildGraph{
		modules: make(map[string]*Module),
	}
}

// AddModule adds a module to the graph.
// It returns an error if a module with the same id already exists.
func (g *BuildGraph) AddModule(m *Module) error {
	id := m.ID()
	if _, exists := g.modules[id]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateModule, id), "module", id)
	}
	g.modules[id] = m
	return nil
}

// Seal normalizes upstream references, cuts cycles and assigns dependency levels.
// Upstream ids that are not part of the reactor move to External.
// Sealing an already sealed graph changes nothing.
func (g *BuildGraph) Seal() {
	ids := g.IDs()

	for _, id := range ids {
		m := g.modules[id]
		upstream := make([]string, 0, len(m.Upstream))
		for _, u := range m.Upstream {
			if _, ok := g.modules[u]; !ok {
				if !slices.Contains(m.External, u) {
					m.External = append(m.External, u)
				}
				continue
			}
			upstream = append(upstream, u)
		}
		slices.Sort(upstream)
		m.Upstream = slices.Compact(upstream)
	}

	g.cutCycles(ids)
	g.assignLevels(ids)

	g.order = make([]*Module, 0, len(ids))
	for _, id := range ids {
		g.order = append(g.order, g.modules[id])
	}
	slices.SortStableFunc(g.order, func(a, b *Module) int {
		return cmp.Or(
			cmp.Compare(a.DependencyLevel, b.DependencyLevel),
			cmp.Compare(a.ID(), b.ID()),
		)
	})
}

// cutCycles walks upstream edges depth first from every module in id order.
// An edge leading back onto the current path is removed from the module that
// declared it and recorded as a cut.
func (g *BuildGraph) cutCycles(ids []string) {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(ids))

	var visit func(id string)
	visit = func(id string) {
		state[id] = visiting
		m := g.modules[id]

		kept := m.Upstream[:0]
		for _, u := range m.Upstream {
			switch state[u] {
			case visiting:
				g.cuts = append(g.cuts, CycleCut{From: id, To: u})
				continue
			case unvisited:
				visit(u)
			}
			kept = append(kept, u)
		}
		m.Upstream = kept

		state[id] = visited
	}

	for _, id := range ids {
		if state[id] == unvisited {
			visit(id)
		}
	}
}

// assignLevels computes level(m) = 1 + max(level(upstream)) by repeated relaxation.
func (g *BuildGraph) assignLevels(ids []string) {
	for _, id := range ids {
		g.modules[id].DependencyLevel = 0
	}

	for pass := 0; pass <= len(ids); pass++ {
		changed := false
		for _, id := range ids {
			m := g.modules[id]
			level := 0
			for _, u := range m.Upstream {
				level = max(level, g.modules[u].DependencyLevel+1)
			}
			if level != m.DependencyLevel {
				m.DependencyLevel = level
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// Module returns the module with the given id.
func (g *BuildGraph) Module(id string) (*Module, bool) {
	m, ok := g.modules[id]
	return m, ok
}

// Len returns the number of modules in the graph.
func (g *BuildGraph) Len() int {
	return len(g.modules)
}

// IDs returns all module ids in lexical order.
func (g *BuildGraph) IDs() []string {
	ids := make([]string, 0, len(g.modules))
	for id := range g.modules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Modules returns the modules in ascending dependency level, ties broken by id.
func (g *BuildGraph) Modules() []*Module {
	return slices.Clone(g.order)
}

// Root returns the reactor root: the first parentless module at level zero.
func (g *BuildGraph) Root() *Module {
	var fallback *Module
	for _, m := range g.order {
		if m.DependencyLevel != 0 {
			break
		}
		if m.Parent == nil && (m.RelativePath == "." || m.RelativePath == "") {
			return m
		}
		if fallback == nil {
			fallback = m
		}
	}
	return fallback
}

// Levels groups the modules by dependency level, lowest first.
func (g *BuildGraph) Levels() [][]*Module {
	var levels [][]*Module
	for _, m := range g.order {
		for len(levels) <= m.DependencyLevel {
			levels = append(levels, nil)
		}
		levels[m.DependencyLevel] = append(levels[m.DependencyLevel], m)
	}
	return levels
}

// Walk returns an iterator that yields modules in build order.
func (g *BuildGraph) Walk() iter.Seq[*Module] {
	return func(yield func(*Module) bool) {
		for _, m := range g.order {
			if !yield(m) {
				return
			}
		}
	}
}

// Downstream returns the ids of every module that transitively depends on any
// of the given ids, in lexical order. The given ids are not included.
func (g *BuildGraph) Downstream(ids ...string) []string {
	dependents := make(map[string][]string, len(g.modules))
	for _, m := range g.modules {
		for _, u := range m.Upstream {
			dependents[u] = append(dependents[u], m.ID())
		}
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	queue := slices.Clone(ids)
	var out []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, d := range dependents[id] {
			if seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
			queue = append(queue, d)
		}
	}
	slices.Sort(out)
	return out
}

// Cuts returns the edges dropped to break cycles.
func (g *BuildGraph) Cuts() []CycleCut {
	return slices.Clone(g.cuts)
}
