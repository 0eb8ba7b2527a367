package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		name    string
		own     domain.Result
		modules []domain.Result
		want    domain.Result
	}{
		{
			name:    "not built is ignored",
			own:     domain.ResultSuccess,
			modules: []domain.Result{domain.ResultSuccess, domain.ResultUnstable, domain.ResultNotBuilt},
			want:    domain.ResultUnstable,
		},
		{
			name:    "failure dominates success",
			own:     domain.ResultSuccess,
			modules: []domain.Result{domain.ResultSuccess, domain.ResultFailure},
			want:    domain.ResultFailure,
		},
		{
			name:    "only not built keeps own result",
			own:     domain.ResultSuccess,
			modules: []domain.Result{domain.ResultNotBuilt, domain.ResultNotBuilt},
			want:    domain.ResultSuccess,
		},
		{
			name:    "own abort wins",
			own:     domain.ResultAborted,
			modules: []domain.Result{domain.ResultFailure},
			want:    domain.ResultAborted,
		},
		{
			name:    "aborted module",
			own:     domain.ResultSuccess,
			modules: []domain.Result{domain.ResultUnstable, domain.ResultAborted},
			want:    domain.ResultAborted,
		},
		{
			name: "no modules",
			own:  domain.ResultFailure,
			want: domain.ResultFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Combine(tt.own, tt.modules...))
		})
	}
}

func TestResult_Thresholds(t *testing.T) {
	assert.True(t, domain.ResultSuccess.IsBetterOrEqual(domain.ResultSuccess))
	assert.False(t, domain.ResultUnstable.IsBetterOrEqual(domain.ResultSuccess))
	assert.True(t, domain.ResultUnstable.IsBetterOrEqual(domain.ResultUnstable))
	assert.True(t, domain.ResultFailure.IsWorseThan(domain.ResultUnstable))

	assert.True(t, domain.ResultFailure.BlocksDownstream())
	assert.True(t, domain.ResultAborted.BlocksDownstream())
	assert.False(t, domain.ResultUnstable.BlocksDownstream())
	assert.False(t, domain.ResultNotBuilt.BlocksDownstream())
}

func TestParseResult(t *testing.T) {
	for _, name := range []string{"SUCCESS", "unstable", "Failure", "NOT_BUILT", "aborted"} {
		r, err := domain.ParseResult(name)
		require.NoError(t, err, name)
		assert.Equal(t, strings.ToUpper(name), r.String())
	}
}

func TestParseResult_Unknown(t *testing.T) {
	_, err := domain.ParseResult("GREEN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown build result")
}

func TestResult_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		R domain.Result `json:"r"`
	}{R: domain.ResultUnstable})
	require.NoError(t, err)
	assert.JSONEq(t, `{"r":"UNSTABLE"}`, string(data))

	var out struct {
		R domain.Result `json:"r"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"r":"not_built"}`), &out))
	assert.Equal(t, domain.ResultNotBuilt, out.R)
}
