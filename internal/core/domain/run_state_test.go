package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

func TestRunState_HappyPath(t *testing.T) {
	path := []domain.RunState{
		domain.RunResolvingGraph,
		domain.RunStagingSource,
		domain.RunDispatchingModules,
		domain.RunAggregating,
		domain.RunFinalizing,
		domain.RunDone,
	}

	state := domain.RunInit
	for _, next := range path {
		var err error
		state, err = state.Next(next)
		require.NoError(t, err)
	}
	assert.True(t, state.IsTerminal())
}

func TestRunState_AbortFromAnyState(t *testing.T) {
	for _, s := range []domain.RunState{
		domain.RunInit, domain.RunResolvingGraph, domain.RunStagingSource,
		domain.RunDispatchingModules, domain.RunAggregating, domain.RunFinalizing,
	} {
		next, err := s.Next(domain.RunAborted)
		require.NoError(t, err, s)
		assert.Equal(t, domain.RunAborted, next)
	}
}

func TestRunState_InvalidTransitions(t *testing.T) {
	_, err := domain.RunInit.Next(domain.RunDispatchingModules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid run state transition")

	_, err = domain.RunDone.Next(domain.RunAborted)
	require.Error(t, err)

	_, err = domain.RunAborted.Next(domain.RunInit)
	require.Error(t, err)
}
