// Package tui provides the interactive terminal renderer: the reactor modules
// grouped by dependency level next to a live pane with the build output of the
// selected module.
package tui

import (
	"io"
	"os"
	"slices"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/telemetry"
	"github.com/b3rserker/gridmaven/internal/ui/output"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	listWidthRatio     = 0.3
	logPaneBorderWidth = 4
)

// ModuleStatus is the display state of one module.
type ModuleStatus string

const (
	// StatusPending marks a module of the build set that has not started.
	StatusPending ModuleStatus = "Pending"
	// StatusRunning marks a module being built.
	StatusRunning ModuleStatus = "Running"
	// StatusDone marks a module that built successfully.
	StatusDone ModuleStatus = "Done"
	// StatusFailed marks a module whose build failed.
	StatusFailed ModuleStatus = "Failed"
	// StatusSkipped marks a module outside the build set.
	StatusSkipped ModuleStatus = "Skipped"
)

// ModuleNode is one row of the module list.
type ModuleNode struct {
	ID      string
	Level   int
	Status  ModuleStatus
	Term    *Vterm
	Started time.Time
	Ended   time.Time
}

// Elapsed returns the build time so far, or the final one.
func (n *ModuleNode) Elapsed(now time.Time) time.Duration {
	switch {
	case n.Started.IsZero():
		return 0
	case n.Ended.IsZero():
		return now.Sub(n.Started)
	default:
		return n.Ended.Sub(n.Started)
	}
}

// Model is the bubbletea model of the TUI.
type Model struct {
	Modules    []*ModuleNode
	byID       map[string]*ModuleNode
	bySpan     map[string]*ModuleNode
	Selected   int
	ListHeight int
	LogWidth   int
	LogHeight  int
	// FollowMode moves the selection to each module that starts.
	FollowMode bool
}

// NewModel creates an empty model rendering with the color profile of w.
func NewModel(w io.Writer) *Model {
	if w == nil {
		w = os.Stderr
	}
	lipgloss.SetColorProfile(output.New(w).Profile)
	return &Model{
		byID:       make(map[string]*ModuleNode),
		bySpan:     make(map[string]*ModuleNode),
		FollowMode: true,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Module returns the node of a module id.
func (m *Model) Module(id string) (*ModuleNode, bool) {
	n, ok := m.byID[id]
	return n, ok
}

// SelectedModule returns the selected node, if any.
func (m *Model) SelectedModule() *ModuleNode {
	if m.Selected >= 0 && m.Selected < len(m.Modules) {
		return m.Modules[m.Selected]
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case telemetry.MsgPlan:
		m.plan(msg)
	case telemetry.MsgModuleStart:
		m.start(msg)
	case telemetry.MsgModuleLog:
		if n, ok := m.bySpan[msg.SpanID]; ok {
			_, _ = n.Term.Write(msg.Data)
		}
	case telemetry.MsgModuleComplete:
		if n, ok := m.bySpan[msg.SpanID]; ok {
			n.Ended = msg.EndTime
			n.Status = StatusDone
			if msg.Err != nil {
				n.Status = StatusFailed
			}
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "k", "up":
		if m.Selected > 0 {
			m.Selected--
			m.FollowMode = false
		}
	case "j", "down":
		if m.Selected < len(m.Modules)-1 {
			m.Selected++
			m.FollowMode = false
		}
	case "esc":
		m.FollowMode = true
		for i, n := range m.Modules {
			if n.Status == StatusRunning {
				m.Selected = i
				break
			}
		}
	default:
		if n := m.SelectedModule(); n != nil {
			n.Term.Scroll(msg.String())
		}
	}
	return nil
}

func (m *Model) resize(width, height int) {
	listWidth := int(float64(width) * listWidthRatio)
	m.LogWidth = width - listWidth - logPaneBorderWidth
	m.LogHeight = height - lipgloss.Height(titleStyle.Render("LOGS"))
	m.ListHeight = height - lipgloss.Height(titleStyle.Render("MODULES")+"\n\n")
	for _, n := range m.Modules {
		m.sizeTerm(n.Term)
	}
}

func (m *Model) sizeTerm(t *Vterm) {
	if m.LogWidth > 0 && m.LogHeight > 0 {
		t.SetWidth(m.LogWidth)
		t.SetHeight(m.LogHeight)
	}
}

// plan lists the modules ordered by level, keeping plan order within a level.
func (m *Model) plan(msg telemetry.MsgPlan) {
	lvl := levels(msg.Modules, msg.Upstream)
	m.Modules = make([]*ModuleNode, 0, len(msg.Modules))
	m.byID = make(map[string]*ModuleNode, len(msg.Modules))
	m.bySpan = make(map[string]*ModuleNode)
	m.Selected = 0

	for _, id := range msg.Modules {
		n := &ModuleNode{ID: id, Level: lvl[id], Status: StatusSkipped, Term: NewVterm()}
		if slices.Contains(msg.Targets, id) {
			n.Status = StatusPending
		}
		m.sizeTerm(n.Term)
		m.Modules = append(m.Modules, n)
		m.byID[id] = n
	}
	slices.SortStableFunc(m.Modules, func(a, b *ModuleNode) int { return a.Level - b.Level })
}

func (m *Model) start(msg telemetry.MsgModuleStart) {
	n, ok := m.byID[msg.Module]
	if !ok {
		return
	}
	n.Status = StatusRunning
	n.Started = msg.StartTime
	m.bySpan[msg.SpanID] = n

	if m.FollowMode {
		m.Selected = slices.Index(m.Modules, n)
	}
}
