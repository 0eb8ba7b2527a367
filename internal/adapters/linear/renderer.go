// Package linear provides a line oriented renderer for CI environments.
// Every line of build output is prefixed with the module it belongs to.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/b3rserker/gridmaven/internal/ui/output"
	"github.com/b3rserker/gridmaven/internal/ui/style"
	"github.com/muesli/termenv"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer for non-interactive environments.
// Build output goes to stdout, progress lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	width   int
	modules map[string]*moduleState // span id -> module
}

type moduleState struct {
	name    string
	started time.Time
	partial bytes.Buffer
}

// NewRenderer creates a Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewCI(stderr),
		modules: make(map[string]*moduleState),
	}
}

// Start is a no-op; the renderer writes synchronously.
func (r *Renderer) Start(context.Context) error {
	return nil
}

// Stop flushes partial lines of modules still running.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.modules {
		r.flushLocked(m)
	}
	return nil
}

// Wait is a no-op.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the size of the reactor and of the build set.
func (r *Renderer) OnPlanEmit(modules []string, _ map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range modules {
		r.width = max(r.width, len(m))
	}
	_, _ = fmt.Fprintf(r.stderr, "Reactor of %d module(s), %d to build\n", len(modules), len(targets))
}

// OnModuleStart prints a start line.
func (r *Renderer) OnModuleStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.modules[spanID] = &moduleState{name: name, started: startTime}
	_, _ = fmt.Fprintf(r.stderr, "%s %s building\n", r.prefix(name), r.output.String(style.Dot).Faint())
}

// OnModuleLog prints complete lines and keeps a trailing partial line for later.
func (r *Renderer) OnModuleLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.modules[spanID]
	if !ok {
		return
	}
	m.partial.Write(data)
	for {
		i := bytes.IndexByte(m.partial.Bytes(), '\n')
		if i < 0 {
			return
		}
		line := m.partial.Next(i + 1)
		r.printLocked(m.name, line)
	}
}

// OnModuleComplete flushes the module output and prints how it ended.
func (r *Renderer) OnModuleComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.modules[spanID]
	if !ok {
		return
	}
	r.flushLocked(m)
	delete(r.modules, spanID)

	elapsed := endTime.Sub(m.started).Round(time.Millisecond)
	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed)
		_, _ = fmt.Fprintf(r.stderr, "%s %s failed after %v: %v\n", r.prefix(m.name), symbol, elapsed, err)
		return
	}
	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen)
	_, _ = fmt.Fprintf(r.stderr, "%s %s done in %v\n", r.prefix(m.name), symbol, elapsed)
}

func (r *Renderer) flushLocked(m *moduleState) {
	if m.partial.Len() > 0 {
		r.printLocked(m.name, m.partial.Bytes())
		m.partial.Reset()
	}
}

func (r *Renderer) printLocked(name string, line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", r.prefix(name), line)
}

// prefix pads module names to the widest name of the plan.
func (r *Renderer) prefix(name string) string {
	return fmt.Sprintf("[%-*s]", r.width, name)
}
