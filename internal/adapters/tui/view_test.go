package tui_test

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/telemetry"
	"github.com/b3rserker/gridmaven/internal/adapters/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestView_BeforeResize(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	m := tui.NewModel(io.Discard)
	assert.Equal(t, "Initializing...", m.View())
}

func TestView_GroupsModulesByLevel(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	m := planned(t)
	m.Update(telemetry.MsgModuleStart{SpanID: "s1", Module: "g:core", StartTime: time.Now()})
	m.Update(telemetry.MsgModuleLog{SpanID: "s1", Data: []byte("Building core 1.0\n")})

	view := m.View()

	for _, want := range []string{"MODULES", "Level 0", "Level 1", "Level 2", "LOGS: g:core (following)", "Building core 1.0"} {
		assert.Contains(t, view, want)
	}
	assert.Less(t, strings.Index(view, "Level 0"), strings.Index(view, "Level 1"))
	assert.Less(t, strings.Index(view, "g:root"), strings.Index(view, "g:app"))
	assert.Contains(t, view, "> ")
}

func TestView_ScrollsListToSelection(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	m := planned(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	for range 3 {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	view := m.View()
	assert.Contains(t, view, "g:app")
	assert.NotContains(t, view, "Level 0")
}
