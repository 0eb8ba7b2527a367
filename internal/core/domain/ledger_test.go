package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

func TestLedger(t *testing.T) {
	l := domain.NewLedger()
	l.Add("g:c", "g:a")
	l.Add("g:a")

	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Contains("g:a"))
	assert.Equal(t, []string{"g:a", "g:c"}, l.IDs())

	clone := l.Clone()
	l.Remove("g:a")

	assert.False(t, l.Contains("g:a"))
	assert.True(t, clone.Contains("g:a"), "clone must be independent")
}

func TestLedger_ZeroValue(t *testing.T) {
	var l domain.UnbuiltModuleLedger
	assert.Equal(t, 0, l.Len())
	l.Remove("g:a")
	l.Add("g:a")
	assert.True(t, l.Contains("g:a"))
}
