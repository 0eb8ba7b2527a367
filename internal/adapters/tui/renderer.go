package tui

import (
	"context"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/telemetry"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	tea "github.com/charmbracelet/bubbletea"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer runs the model in a bubbletea program and feeds it span events.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a renderer for model.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start runs the program in the background.
func (r *Renderer) Start(context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop asks the program to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the program terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit implements ports.Renderer.
func (r *Renderer) OnPlanEmit(modules []string, deps map[string][]string, targets []string) {
	r.program.Send(telemetry.MsgPlan{Modules: modules, Upstream: deps, Targets: targets})
}

// OnModuleStart implements ports.Renderer.
func (r *Renderer) OnModuleStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(telemetry.MsgModuleStart{SpanID: spanID, ParentID: parentID, Module: name, StartTime: startTime})
}

// OnModuleLog implements ports.Renderer.
func (r *Renderer) OnModuleLog(spanID string, data []byte) {
	r.program.Send(telemetry.MsgModuleLog{SpanID: spanID, Data: data})
}

// OnModuleComplete implements ports.Renderer.
func (r *Renderer) OnModuleComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(telemetry.MsgModuleComplete{SpanID: spanID, EndTime: endTime, Err: err})
}
