// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/ui/output"
	"github.com/b3rserker/gridmaven/internal/ui/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	moduleKey = "module"
	resultKey = "result"
)

// PrettyHandler is a slog.Handler that writes one colored line per record.
// The level is read on every record so a shared slog.LevelVar can change it at runtime.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one line per record. A top-level "module" attribute becomes
// the line prefix and a "result" attribute picks the mark of that result.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelMark(r.Level)

	var module string
	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	add := func(attr slog.Attr) bool {
		if h.group == "" && attr.Key == moduleKey {
			module = attr.Value.String()
			return true
		}
		if attr.Key == resultKey {
			if res, err := domain.ParseResult(attr.Value.String()); err == nil {
				mark := style.ResultMark(res)
				icon, color = mark.Icon, mark.Color
			}
		}
		parts = append(parts, formatAttr(h.group, attr))
		return true
	}
	for _, attr := range h.attrs {
		add(attr)
	}
	r.Attrs(add)

	var line strings.Builder
	if module != "" {
		line.WriteString("[" + module + "] ")
	}
	if icon != "" {
		line.WriteString(icon + " ")
	}
	line.WriteString(r.Message)
	if len(parts) > 0 {
		line.WriteString(" " + strings.Join(parts, " "))
	}

	styled := h.out.String(line.String()).Foreground(termenv.RGBColor(string(color)))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

func levelMark(level slog.Level) (string, lipgloss.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, style.Red
	case level >= slog.LevelWarn:
		return style.Warning, style.Amber
	case level < slog.LevelInfo:
		return style.Tilde, style.Muted
	default:
		return "", style.Muted
	}
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// formatAttr renders key=value, qualifying the key with the group.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
