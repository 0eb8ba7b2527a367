// Package descriptor reads module descriptors and resolves them into a build graph.
package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// File is the decoded form of module.yaml or module.hcl.
type File struct {
	Group        string   `yaml:"group" hcl:"group,optional"`
	Artifact     string   `yaml:"artifact" hcl:"artifact,optional"`
	Version      string   `yaml:"version" hcl:"version,optional"`
	Packaging    string   `yaml:"packaging" hcl:"packaging,optional"`
	Modules      []string `yaml:"modules" hcl:"modules,optional"`
	Dependencies []string `yaml:"dependencies" hcl:"dependencies,optional"`
	Goals        []string `yaml:"goals" hcl:"goals,optional"`
}

// Decode parses descriptor source. The format is chosen by the extension of filename.
func Decode(filename string, src []byte) (f *File, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(errors.Join(domain.ErrEmbedderFailure, fmt.Errorf("decoder panic: %v", r)), "file", filename)
		}
	}()

	f = &File{}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(src))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
			return nil, malformed(filename, err)
		}
	case ".hcl":
		file, diags := hclparse.NewParser().ParseHCL(src, filename)
		if diags.HasErrors() {
			return nil, malformed(filename, diags)
		}
		if diags := gohcl.DecodeBody(file.Body, nil, f); diags.HasErrors() {
			return nil, malformed(filename, diags)
		}
	default:
		return nil, zerr.With(errors.Join(domain.ErrMalformedDescriptor, errUnknownFormat), "file", filename)
	}

	return f, nil
}

// ReadFile reads and decodes the descriptor at path.
// A missing file is reported with fs.ErrNotExist in its chain.
func ReadFile(path string) (*File, error) {
	// #nosec G304 -- descriptor paths come from the reactor tree
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(errors.Join(domain.ErrNoSuchDescriptor, err), "file", path)
		}
		return nil, zerr.With(errors.Join(domain.ErrEmbedderFailure, err), "file", path)
	}
	return Decode(path, src)
}

// Locate returns the descriptor file for a module reference.
// A directory reference resolves to module.yaml and then module.hcl.
func Locate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(errors.Join(domain.ErrNoSuchDescriptor, err), "path", path)
		}
		return "", zerr.With(errors.Join(domain.ErrEmbedderFailure, err), "path", path)
	}
	if !info.IsDir() {
		return path, nil
	}

	for _, name := range []string{domain.DescriptorYAML, domain.DescriptorHCL} {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", zerr.With(errors.Join(domain.ErrNoSuchDescriptor, fs.ErrNotExist), "path", path)
}

// Coordinate applies inheritance from the parent and the packaging default.
func (f *File) Coordinate(parent *domain.Coordinate) domain.Coordinate {
	c := domain.Coordinate{
		Group:     f.Group,
		Artifact:  f.Artifact,
		Version:   f.Version,
		Packaging: f.Packaging,
	}
	if parent != nil {
		if c.Group == "" {
			c.Group = parent.Group
		}
		if c.Version == "" {
			c.Version = parent.Version
		}
	}
	if c.Packaging == "" {
		c.Packaging = "jar"
		if len(f.Modules) > 0 {
			c.Packaging = domain.PackagingPOM
		}
	}
	return c
}

// DependencyIDs returns the dependency references in "group:artifact" form.
// A bare artifact name refers to the module's own group.
func (f *File) DependencyIDs(group string) []string {
	ids := make([]string, 0, len(f.Dependencies))
	for _, dep := range f.Dependencies {
		dep = strings.TrimSpace(dep)
		if dep == "" {
			continue
		}
		parts := strings.Split(dep, ":")
		if len(parts) == 1 {
			ids = append(ids, group+":"+parts[0])
			continue
		}
		ids = append(ids, parts[0]+":"+parts[1])
	}
	return ids
}

var (
	errUnknownFormat = errors.New("unknown descriptor format")
)

func malformed(filename string, err error) error {
	return zerr.With(errors.Join(domain.ErrMalformedDescriptor, err), "file", filename)
}
