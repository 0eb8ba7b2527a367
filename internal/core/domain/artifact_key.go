package domain

import (
	"path"
	"strings"
)

const (
	// SourcesNamespace is the blob store prefix for staged source archives.
	SourcesNamespace = "/sources"
	// RepositoryNamespace is the blob store prefix for published module outputs.
	RepositoryNamespace = "/repository"
)

// ArtifactKey is the deterministic store key of one module within one job.
// Two builds of the same module and version in the same job share a key, so
// staging again overwrites instead of appending.
type ArtifactKey string

// NewArtifactKey composes the key from the job identity, the reactor root and the module.
func NewArtifactKey(job string, root, module Coordinate) ArtifactKey {
	packaging := module.Packaging
	if packaging == "" {
		packaging = "jar"
	}
	name := module.Artifact + "-" + module.Version + "." + packaging
	return ArtifactKey(path.Join(sanitizeSegment(job), sanitizeSegment(root.ID()), sanitizeSegment(name)))
}

// SourcePath returns the blob path of the staged source archive.
func (k ArtifactKey) SourcePath() string {
	return path.Join(SourcesNamespace, string(k))
}

// OutputPath returns the blob path of the published build output.
func (k ArtifactKey) OutputPath() string {
	return path.Join(RepositoryNamespace, string(k))
}

// String returns the key.
func (k ArtifactKey) String() string {
	return string(k)
}

// IsZero reports whether the key is empty.
func (k ArtifactKey) IsZero() bool {
	return k == ""
}

func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
}
