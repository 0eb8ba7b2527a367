package style_test

import (
	"testing"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/ui/style"
	"github.com/stretchr/testify/assert"
)

func TestResultMark(t *testing.T) {
	tests := []struct {
		result domain.Result
		want   style.Mark
	}{
		{domain.ResultSuccess, style.Mark{Icon: style.Check, Color: style.Green}},
		{domain.ResultUnstable, style.Mark{Icon: style.Warning, Color: style.Amber}},
		{domain.ResultFailure, style.Mark{Icon: style.Cross, Color: style.Red}},
		{domain.ResultNotBuilt, style.Mark{Icon: style.Tilde, Color: style.Muted}},
		{domain.ResultAborted, style.Mark{Icon: style.Stop, Color: style.Red}},
		{domain.Result(42), style.Mark{Icon: style.Tilde, Color: style.Muted}},
	}
	for _, tt := range tests {
		t.Run(tt.result.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, style.ResultMark(tt.result))
		})
	}
}
