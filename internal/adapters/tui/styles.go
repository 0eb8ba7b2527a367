package tui

import (
	"github.com/b3rserker/gridmaven/internal/ui/style"
	"github.com/charmbracelet/lipgloss"
)

var (
	pendingStyle = lipgloss.NewStyle().
			Foreground(style.Muted)

	runningStyle = lipgloss.NewStyle().
			Foreground(style.Accent).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	failedStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	skippedStyle = lipgloss.NewStyle().
			Foreground(style.Muted).
			Faint(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Accent).
			Bold(true)

	levelStyle = lipgloss.NewStyle().
			Foreground(style.Muted).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Accent).
			Foreground(style.OnLight)

	listStyle = lipgloss.NewStyle().
			PaddingRight(2)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(style.Muted)
)
