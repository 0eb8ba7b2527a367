package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// stagingLimit bounds concurrent uploads to the artifact store.
const stagingLimit = 8

// stage selects the build set and uploads its sources.
func (r *run) stage(ctx context.Context) error {
	r.selectBuildSet()
	if len(r.buildSet) == 0 {
		r.Logger.Info("nothing to build")
		return nil
	}

	for _, ns := range []string{domain.SourcesNamespace, domain.RepositoryNamespace} {
		if err := r.Store.EnsureNamespace(ctx, ns); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return domain.NewAbortError(zerr.With(err, "namespace", ns).Error())
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stagingLimit)
	for m := range r.graph.Walk() {
		if !r.buildSet[m.ID()] && m != r.root {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			err := r.stageModule(gctx, m)
			r.Metrics.ObserveStaging(m.ID(), time.Since(start), err)
			if err == nil {
				return nil
			}
			if errors.Is(err, domain.ErrStoreUnavailable) || gctx.Err() != nil {
				return err
			}
			r.Logger.Warn("failed to stage module", "module", m.ID(), "error", err.Error())
			r.mu.Lock()
			r.stageFailure[m.ID()] = err
			r.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return domain.NewAbortError(err.Error())
	}
	return nil
}

// stageModule uploads the full tree of the reactor root and only the
// descriptor of every other module. The workers overlay the descriptors on
// the root tree. A root without a source tree falls back to its descriptor.
func (r *run) stageModule(ctx context.Context, m *domain.Module) error {
	key := r.key(m).SourcePath()
	descriptor := filepath.Join(r.moduleDir(m), m.DescriptorFile)

	if m == r.root {
		err := r.Store.PutTree(ctx, r.moduleDir(m), key)
		if !errors.Is(err, domain.ErrSourceNotFound) {
			return err
		}
		r.Logger.Debug("source tree missing, staging descriptor only", "module", m.ID())
	}
	if err := r.Store.PutFile(ctx, descriptor, key); err != nil {
		return zerr.With(errors.Join(domain.ErrStagingFailed, err), "module", m.ID())
	}
	return nil
}

// selectBuildSet decides which modules this run builds. Every module is
// hashed so a successful build can record the hash it was built from.
func (r *run) selectBuildSet() {
	r.buildSet = make(map[string]bool, r.graph.Len())

	var changed []string
	for m := range r.graph.Walk() {
		id := m.ID()
		hash, err := r.Hasher.HashTree(r.moduleDir(m), r.excludes(m))
		if err != nil {
			r.Logger.Warn("failed to hash module sources", "module", id, "error", err.Error())
			changed = append(changed, id)
			continue
		}
		r.hashes[id] = hash
		if r.fullBuild {
			continue
		}
		if r.ledger.Contains(id) {
			r.Logger.Debug("rebuilding unbuilt module", "module", id)
			changed = append(changed, id)
			continue
		}
		info, err := r.State.BuildInfo(id)
		if err != nil {
			r.Logger.Warn("failed to read build info", "module", id, "error", err.Error())
		}
		if err != nil || info == nil || info.SourceHash != hash {
			changed = append(changed, id)
		}
	}

	if r.fullBuild {
		for _, id := range r.graph.IDs() {
			r.buildSet[id] = true
		}
		r.Logger.Info("full build", "modules", len(r.buildSet))
		return
	}
	for _, id := range changed {
		r.buildSet[id] = true
	}
	for _, id := range r.graph.Downstream(changed...) {
		r.buildSet[id] = true
	}
	r.Logger.Info("incremental build", "changed", len(changed), "modules", len(r.buildSet))
}

// excludes returns the directories below m that belong to other modules, as
// "./" paths relative to the module directory, plus the build output and
// state directory names.
func (r *run) excludes(m *domain.Module) []string {
	var out []string
	if r.project.BuildTool.OutputDir != "" {
		out = append(out, r.project.BuildTool.OutputDir)
	}
	out = append(out, domain.StateDirName)

	base := m.RelativePath
	for other := range r.graph.Walk() {
		if other == m {
			continue
		}
		rel := other.RelativePath
		switch {
		case base == "." || base == "":
			if rel != "." && rel != "" {
				out = append(out, "./"+rel)
			}
		case strings.HasPrefix(rel, base+"/"):
			out = append(out, "./"+strings.TrimPrefix(rel, base+"/"))
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
