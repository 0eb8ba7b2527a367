package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

func mod(artifact string, upstream ...string) *domain.Module {
	ids := make([]string, len(upstream))
	for i, u := range upstream {
		ids[i] = "g:" + u
	}
	return &domain.Module{
		Coordinate:   domain.Coordinate{Group: "g", Artifact: artifact, Version: "1.0", Packaging: "jar"},
		RelativePath: artifact,
		Upstream:     ids,
	}
}

func buildGraph(t *testing.T, modules ...*domain.Module) *domain.BuildGraph {
	t.Helper()
	g := domain.NewBuildGraph()
	for _, m := range modules {
		require.NoError(t, g.AddModule(m))
	}
	g.Seal()
	return g
}

func levels(g *domain.BuildGraph) map[string]int {
	out := make(map[string]int, g.Len())
	for m := range g.Walk() {
		out[m.Artifact] = m.DependencyLevel
	}
	return out
}

func TestBuildGraph_AddModule_Duplicate(t *testing.T) {
	g := domain.NewBuildGraph()
	require.NoError(t, g.AddModule(mod("a")))

	err := g.AddModule(mod("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate module")
}

func TestBuildGraph_Levels(t *testing.T) {
	tests := []struct {
		name    string
		modules []*domain.Module
		want    map[string]int
	}{
		{
			name:    "single root",
			modules: []*domain.Module{mod("r")},
			want:    map[string]int{"r": 0},
		},
		{
			name: "reactor with children and a chain",
			modules: []*domain.Module{
				mod("r"), mod("a", "r"), mod("b", "r"), mod("c", "r", "a"),
			},
			want: map[string]int{"r": 0, "a": 1, "b": 1, "c": 2},
		},
		{
			name: "diamond takes the longest path",
			modules: []*domain.Module{
				mod("r"), mod("a", "r"), mod("b", "a"), mod("c", "r", "b"),
			},
			want: map[string]int{"r": 0, "a": 1, "b": 2, "c": 3},
		},
		{
			name: "external references are ignored",
			modules: []*domain.Module{
				mod("r"), mod("a", "r", "junit"),
			},
			want: map[string]int{"r": 0, "a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.modules...)
			if diff := cmp.Diff(tt.want, levels(g)); diff != "" {
				t.Errorf("levels mismatch (-want +got):\n%s", diff)
			}
			assert.Empty(t, g.Cuts())
		})
	}
}

func TestBuildGraph_LevelsIncreaseAlongEdges(t *testing.T) {
	g := buildGraph(t,
		mod("r"), mod("a", "r"), mod("b", "r", "a"), mod("c", "b"), mod("d", "c", "a"), mod("e"),
	)

	for m := range g.Walk() {
		for _, u := range m.Upstream {
			up, ok := g.Module(u)
			require.True(t, ok)
			assert.Less(t, up.DependencyLevel, m.DependencyLevel, "%s -> %s", u, m.ID())
		}
	}
	assert.Equal(t, 0, g.Root().DependencyLevel)
}

func TestBuildGraph_WalkVisitsUpstreamFirst(t *testing.T) {
	g := buildGraph(t, mod("c", "b"), mod("b", "a"), mod("a"))

	seen := make(map[string]bool)
	for m := range g.Walk() {
		for _, u := range m.Upstream {
			assert.True(t, seen[u], "%s visited before upstream %s", m.ID(), u)
		}
		seen[m.ID()] = true
	}
	assert.Len(t, seen, 3)
}

func TestBuildGraph_CycleCut(t *testing.T) {
	tests := []struct {
		name     string
		modules  []*domain.Module
		wantCuts []domain.CycleCut
	}{
		{
			name:     "self reference",
			modules:  []*domain.Module{mod("a", "a")},
			wantCuts: []domain.CycleCut{{From: "g:a", To: "g:a"}},
		},
		{
			name:     "two node cycle",
			modules:  []*domain.Module{mod("a", "b"), mod("b", "a")},
			wantCuts: []domain.CycleCut{{From: "g:b", To: "g:a"}},
		},
		{
			name:     "three node cycle",
			modules:  []*domain.Module{mod("a", "b"), mod("b", "c"), mod("c", "a")},
			wantCuts: []domain.CycleCut{{From: "g:c", To: "g:a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.modules...)
			assert.Equal(t, tt.wantCuts, g.Cuts())
			assert.Equal(t, len(tt.modules), g.Len(), "cutting never drops modules")
			for m := range g.Walk() {
				for _, u := range m.Upstream {
					up, _ := g.Module(u)
					assert.Less(t, up.DependencyLevel, m.DependencyLevel)
				}
			}
		})
	}
}

func TestBuildGraph_CycleCutIsIdempotent(t *testing.T) {
	g := buildGraph(t, mod("r"), mod("a", "r", "c"), mod("b", "a"), mod("c", "b"))
	require.NotEmpty(t, g.Cuts())

	before := snapshot(g)

	// Rebuild from the already cut modules.
	again := domain.NewBuildGraph()
	for _, m := range g.Modules() {
		clone := *m
		require.NoError(t, again.AddModule(&clone))
	}
	again.Seal()

	assert.Empty(t, again.Cuts())
	if diff := cmp.Diff(before, snapshot(again)); diff != "" {
		t.Errorf("graph changed after re-resolution (-want +got):\n%s", diff)
	}

	// Sealing in place is stable as well.
	g.Seal()
	if diff := cmp.Diff(before, snapshot(g)); diff != "" {
		t.Errorf("graph changed after resealing (-want +got):\n%s", diff)
	}
}

func snapshot(g *domain.BuildGraph) []domain.ModuleSnapshot {
	out := make([]domain.ModuleSnapshot, 0, g.Len())
	for m := range g.Walk() {
		out = append(out, m.Snapshot())
	}
	return out
}

func TestBuildGraph_Downstream(t *testing.T) {
	g := buildGraph(t, mod("r"), mod("a", "r"), mod("b", "r"), mod("c", "a"), mod("d", "c"))

	assert.Equal(t, []string{"g:c", "g:d"}, g.Downstream("g:a"))
	assert.Equal(t, []string{"g:a", "g:b", "g:c", "g:d"}, g.Downstream("g:r"))
	assert.Empty(t, g.Downstream("g:d"))
}

func TestBuildGraph_LevelsGrouping(t *testing.T) {
	g := buildGraph(t, mod("r"), mod("b", "r"), mod("a", "r"), mod("c", "a"))

	lv := g.Levels()
	require.Len(t, lv, 3)
	assert.Equal(t, "r", lv[0][0].Artifact)
	assert.Equal(t, []string{"a", "b"}, []string{lv[1][0].Artifact, lv[1][1].Artifact})
	assert.Equal(t, "c", lv[2][0].Artifact)
}

func TestBuildGraph_ModuleNotFound(t *testing.T) {
	g := buildGraph(t, mod("r"))
	_, ok := g.Module("g:missing")
	assert.False(t, ok)
}
