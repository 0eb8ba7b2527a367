// Package style holds the palette and marks shared by the renderers and the
// log handler.
package style

import (
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	Accent  = lipgloss.Color("#2F80ED")
	Muted   = lipgloss.Color("#6B7280")
	OnLight = lipgloss.Color("#FFFFFF")
	Green   = lipgloss.Color("#1F9D55")
	Red     = lipgloss.Color("#DC2626")
	Amber   = lipgloss.Color("#D97706")
)

// Marks.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
	Stop    = "■"
)

// Mark is how a build result is drawn.
type Mark struct {
	Icon  string
	Color lipgloss.Color
}

// ResultMark returns the mark of r. Unknown results draw like NOT_BUILT.
func ResultMark(r domain.Result) Mark {
	switch r {
	case domain.ResultSuccess:
		return Mark{Icon: Check, Color: Green}
	case domain.ResultUnstable:
		return Mark{Icon: Warning, Color: Amber}
	case domain.ResultFailure:
		return Mark{Icon: Cross, Color: Red}
	case domain.ResultAborted:
		return Mark{Icon: Stop, Color: Red}
	default:
		return Mark{Icon: Tilde, Color: Muted}
	}
}
