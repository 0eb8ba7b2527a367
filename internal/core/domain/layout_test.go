package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

func TestLayoutPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "DefaultStatePath",
			got:      domain.DefaultStatePath(),
			expected: filepath.Join(".gridmaven", "state"),
		},
		{
			name:     "DefaultWorkspacePath",
			got:      domain.DefaultWorkspacePath(),
			expected: filepath.Join(".gridmaven", "workspace"),
		},
		{
			name:     "DefaultSocketDir",
			got:      domain.DefaultSocketDir(),
			expected: filepath.Join(".gridmaven", "sockets"),
		},
		{
			name:     "DefaultDebugLogPath",
			got:      domain.DefaultDebugLogPath(),
			expected: filepath.Join(".gridmaven", "worker.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}
