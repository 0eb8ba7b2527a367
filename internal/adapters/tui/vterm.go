package tui

import (
	"bytes"
	"sync"

	"github.com/vito/midterm"
)

// Vterm is the scrollable virtual terminal holding the output of one module.
// It follows the tail of the output until the user scrolls up.
type Vterm struct {
	mu     sync.Mutex
	vt     *midterm.Terminal
	buf    bytes.Buffer
	Offset int
	Height int
	Width  int
	// Prefix is rendered in front of every line.
	Prefix string
}

// NewVterm creates an empty terminal.
func NewVterm() *Vterm {
	return &Vterm{vt: midterm.NewAutoResizingTerminal()}
}

// Write feeds build output into the terminal.
func (v *Vterm) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	tail := v.atTail()
	n, err := v.vt.Write(p)
	if tail {
		v.Offset = v.maxOffset()
	}
	return n, err
}

// SetHeight sets the number of visible lines, at least one.
func (v *Vterm) SetHeight(h int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	tail := v.atTail()
	v.Height = max(h, 1)
	if tail {
		v.Offset = v.maxOffset()
	}
	v.clamp()
}

// SetWidth sets the width of the pane. The terminal wraps at the width minus the prefix.
func (v *Vterm) SetWidth(w int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.Width = max(w, 1)
	v.vt.ResizeX(max(v.Width-len(v.Prefix), 1))
}

// UsedHeight returns the number of lines written so far.
func (v *Vterm) UsedHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.UsedHeight()
}

// Scroll moves the view for a navigation key and reports whether the key was one.
func (v *Vterm) Scroll(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch key {
	case "pgup":
		v.Offset -= v.Height
	case "pgdown":
		v.Offset += v.Height
	case "home":
		v.Offset = 0
	case "end":
		v.Offset = v.maxOffset()
	case "shift+up":
		v.Offset--
	case "shift+down":
		v.Offset++
	default:
		return false
	}
	v.clamp()
	return true
}

// View renders the visible lines.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.clamp()
	v.buf.Reset()
	used := v.vt.UsedHeight()
	for i := 0; i < v.Height && v.Offset+i < used; i++ {
		if i > 0 {
			v.buf.WriteByte('\n')
		}
		v.buf.WriteString(v.Prefix)
		_ = v.vt.RenderLine(&v.buf, v.Offset+i)
	}
	return v.buf.String()
}

func (v *Vterm) atTail() bool {
	return v.Offset >= v.maxOffset()
}

func (v *Vterm) clamp() {
	v.Offset = min(max(v.Offset, 0), v.maxOffset())
}

func (v *Vterm) maxOffset() int {
	return max(v.vt.UsedHeight()-v.Height, 0)
}
