// Package domain contains the core domain models of the build orchestrator:
// the reactor module graph, build requests and outcomes, results and the
// incremental rebuild ledger.
package domain

import (
	"slices"
	"strings"
)

// PackagingPOM marks an aggregator module that produces no binary output.
const PackagingPOM = "pom"

// Coordinate identifies a module within and across reactors.
type Coordinate struct {
	Group     string `json:"group" yaml:"group"`
	Artifact  string `json:"artifact" yaml:"artifact"`
	Version   string `json:"version,omitempty" yaml:"version"`
	Packaging string `json:"packaging,omitempty" yaml:"packaging"`
}

// ID returns the intra-reactor reference form "group:artifact".
func (c Coordinate) ID() string {
	return c.Group + ":" + c.Artifact
}

// String returns the full "group:artifact:version:packaging" form.
func (c Coordinate) String() string {
	return strings.Join([]string{c.Group, c.Artifact, c.Version, c.Packaging}, ":")
}

// IsAggregator reports whether the module only aggregates children.
func (c Coordinate) IsAggregator() bool {
	return c.Packaging == PackagingPOM
}

// Module is one node of the reactor: a parsed module descriptor plus its
// position in the dependency graph.
type Module struct {
	Coordinate

	// RelativePath is the slash separated directory of the module relative to
	// the reactor root. The root itself is ".".
	RelativePath string
	// DescriptorFile is the base name of the descriptor inside RelativePath.
	DescriptorFile string

	Parent   *Module
	Children []*Module

	// Upstream holds the ids of intra-reactor modules this module depends on,
	// its parent included.
	Upstream []string
	// External holds dependency references that are not part of the reactor.
	External []string
	// Goals overrides the configured goal list when set.
	Goals []string

	DependencyLevel int
	Disabled        bool
	FirstBuild      int
}

// DescriptorPath returns the slash separated descriptor path relative to the reactor root.
func (m *Module) DescriptorPath() string {
	if m.RelativePath == "" || m.RelativePath == "." {
		return m.DescriptorFile
	}
	return m.RelativePath + "/" + m.DescriptorFile
}

// DependsOn reports whether id is a direct upstream of the module.
func (m *Module) DependsOn(id string) bool {
	return slices.Contains(m.Upstream, id)
}

// Snapshot returns a detached copy of the module that carries no graph pointers.
// Build requests carry snapshots so a transport never shares graph state.
func (m *Module) Snapshot() ModuleSnapshot {
	s := ModuleSnapshot{
		Coordinate:      m.Coordinate,
		RelativePath:    m.RelativePath,
		DescriptorFile:  m.DescriptorFile,
		Upstream:        slices.Clone(m.Upstream),
		DependencyLevel: m.DependencyLevel,
	}
	if m.Parent != nil {
		s.ParentID = m.Parent.ID()
	}
	return s
}

// ModuleSnapshot is the immutable value form of a Module.
type ModuleSnapshot struct {
	Coordinate
	RelativePath    string   `json:"relative_path"`
	DescriptorFile  string   `json:"descriptor_file"`
	ParentID        string   `json:"parent_id,omitempty"`
	Upstream        []string `json:"upstream,omitempty"`
	DependencyLevel int      `json:"dependency_level"`
}
