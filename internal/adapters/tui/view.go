package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/b3rserker/gridmaven/internal/ui/style"
	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.ListHeight <= 0 {
		return "Initializing..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.moduleList(time.Now()), m.logPane())
}

// listLines renders one heading per level and one row per module. It returns
// the line index of the selected module.
func (m *Model) listLines(now time.Time) ([]string, int) {
	lines := make([]string, 0, len(m.Modules)+4)
	selectedLine := 0
	level := -1
	for i, n := range m.Modules {
		if n.Level != level {
			level = n.Level
			lines = append(lines, levelStyle.Render(fmt.Sprintf("Level %d", level)))
		}
		if i == m.Selected {
			selectedLine = len(lines)
		}
		lines = append(lines, m.row(i, n, now))
	}
	return lines, selectedLine
}

func (m *Model) moduleList(now time.Time) string {
	lines, selected := m.listLines(now)

	start := 0
	if selected >= m.ListHeight {
		start = selected - m.ListHeight + 1
	}
	end := min(len(lines), start+m.ListHeight)

	var s strings.Builder
	s.WriteString(titleStyle.Render("MODULES") + "\n\n")
	for _, l := range lines[start:end] {
		s.WriteString(l + "\n")
	}
	return listStyle.Render(s.String())
}

func (m *Model) row(index int, n *ModuleNode, now time.Time) string {
	cursor := "  "
	st := statusStyle(n.Status)
	if index == m.Selected {
		cursor = selectedStyle.Render("> ")
		if n.Status == StatusPending || n.Status == StatusRunning {
			st = selectedStyle
		}
	}

	text := statusIcon(n.Status) + " " + n.ID
	if d := n.Elapsed(now); d > 0 {
		text += fmt.Sprintf(" (%s)", d.Round(100*time.Millisecond))
	}
	return cursor + st.Render(text)
}

func statusIcon(s ModuleStatus) string {
	switch s {
	case StatusRunning:
		return style.Dot
	case StatusDone:
		return style.Check
	case StatusFailed:
		return style.Cross
	case StatusSkipped:
		return style.Tilde
	default:
		return style.Circle
	}
}

func statusStyle(s ModuleStatus) lipgloss.Style {
	switch s {
	case StatusRunning:
		return runningStyle
	case StatusDone:
		return doneStyle
	case StatusFailed:
		return failedStyle
	case StatusSkipped:
		return skippedStyle
	default:
		return pendingStyle
	}
}

func (m *Model) logPane() string {
	n := m.SelectedModule()
	if n == nil {
		return logStyle.Render(titleStyle.Render("LOGS (waiting)"))
	}
	mode := "manual"
	if m.FollowMode {
		mode = "following"
	}
	header := titleStyle.Render(fmt.Sprintf("LOGS: %s (%s)", n.ID, mode))
	return logStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, n.Term.View()))
}
