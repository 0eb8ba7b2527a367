package descriptor

import (
	"context"
	"errors"
	"path/filepath"
	"slices"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GraphResolver = (*Resolver)(nil)

// Resolver implements ports.GraphResolver over module.yaml and module.hcl trees.
type Resolver struct {
	logger ports.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(logger ports.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// resolution carries the state of one Resolve call.
type resolution struct {
	root    string
	graph   *domain.BuildGraph
	visited map[string]bool
}

// Resolve reads the root descriptor at location and, when recursive, every
// module it references. The returned graph is sealed.
func (r *Resolver) Resolve(ctx context.Context, location string, recursive bool) (*domain.BuildGraph, error) {
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrEmbedderFailure, err), "location", location)
	}

	path, err := Locate(abs)
	if err != nil {
		return nil, err
	}

	file, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	res := &resolution{
		root:    filepath.Dir(path),
		graph:   domain.NewBuildGraph(),
		visited: map[string]bool{path: true},
	}

	root, err := res.add(file, path, nil)
	if err != nil {
		return nil, err
	}

	if recursive {
		if err := r.descend(ctx, res, root, file); err != nil {
			return nil, err
		}
	}

	res.graph.Seal()
	for _, cut := range res.graph.Cuts() {
		r.logger.Warn("dependency cycle cut", "from", cut.From, "to", cut.To)
	}

	return res.graph, nil
}

// descend resolves the children referenced by parent's descriptor, depth first.
func (r *Resolver) descend(ctx context.Context, res *resolution, parent *domain.Module, file *File) error {
	base := filepath.Join(res.root, filepath.FromSlash(parent.RelativePath))

	for _, ref := range file.Modules {
		if err := ctx.Err(); err != nil {
			return err
		}

		path, err := Locate(filepath.Join(base, filepath.FromSlash(ref)))
		if err != nil {
			if r.skippable(err, parent, ref) {
				continue
			}
			return err
		}
		if res.visited[path] {
			r.logger.Warn("module referenced twice, skipping", "parent", parent.ID(), "module", ref)
			continue
		}
		res.visited[path] = true

		child, err := ReadFile(path)
		if err != nil {
			if r.skippable(err, parent, ref) {
				continue
			}
			return err
		}

		m, err := res.add(child, path, parent)
		if err != nil {
			if r.skippable(err, parent, ref) {
				continue
			}
			return err
		}

		if err := r.descend(ctx, res, m, child); err != nil {
			return err
		}
	}
	return nil
}

// skippable logs a child failure that only drops the child's subtree.
func (r *Resolver) skippable(err error, parent *domain.Module, ref string) bool {
	switch {
	case errors.Is(err, domain.ErrNoSuchDescriptor):
		r.logger.Warn("module descriptor not found, skipping", "parent", parent.ID(), "module", ref)
		return true
	case errors.Is(err, domain.ErrMalformedDescriptor):
		r.logger.Error(err)
		r.logger.Warn("dropping malformed module", "parent", parent.ID(), "module", ref)
		return true
	}
	return false
}

// add turns a decoded descriptor into a module and adds it to the graph.
func (res *resolution) add(file *File, path string, parent *domain.Module) (*domain.Module, error) {
	var inherited *domain.Coordinate
	if parent != nil {
		inherited = &parent.Coordinate
	}
	coord := file.Coordinate(inherited)
	if coord.Group == "" || coord.Artifact == "" {
		return nil, zerr.With(errors.Join(domain.ErrMalformedDescriptor, domain.ErrInvalidCoordinate), "file", path)
	}

	rel, err := filepath.Rel(res.root, filepath.Dir(path))
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrEmbedderFailure, err), "file", path)
	}

	m := &domain.Module{
		Coordinate:     coord,
		RelativePath:   filepath.ToSlash(rel),
		DescriptorFile: filepath.Base(path),
		Parent:         parent,
		Goals:          slices.Clone(file.Goals),
	}
	if parent != nil {
		m.Upstream = append(m.Upstream, parent.ID())
	}
	for _, id := range file.DependencyIDs(coord.Group) {
		if id != m.ID() {
			m.Upstream = append(m.Upstream, id)
		}
	}

	if err := res.graph.AddModule(m); err != nil {
		return nil, errors.Join(domain.ErrMalformedDescriptor, err)
	}
	if parent != nil {
		parent.Children = append(parent.Children, m)
	}
	return m, nil
}
