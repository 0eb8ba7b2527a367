package app

import (
	"fmt"
	"io"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/detector"
	"github.com/b3rserker/gridmaven/internal/engine/orchestrator"
	"github.com/b3rserker/gridmaven/internal/ui/output"
	"github.com/b3rserker/gridmaven/internal/ui/style"
	"github.com/muesli/termenv"
)

// writeSummary prints the reactor summary of a finished run: one line per
// module followed by the composite result.
func writeSummary(w io.Writer, mode detector.OutputMode, rep *orchestrator.RunReport) {
	out := output.NewCI(w)
	if mode == detector.ModeTUI {
		out = output.New(w)
	}

	width := 0
	for _, m := range rep.Modules {
		width = max(width, len(m.Module))
	}

	scope := "incremental"
	if rep.FullBuild {
		scope = "full"
	}
	_, _ = fmt.Fprintf(out, "Reactor summary (run #%d, %s, %d selected):\n", rep.RunNumber, scope, len(rep.BuildSet))
	for _, m := range rep.Modules {
		mark := style.ResultMark(m.Result)
		icon := out.String(mark.Icon).Foreground(termenv.RGBColor(string(mark.Color)))
		line := fmt.Sprintf("  %s %-*s %-9s", icon, width, m.Module, m.Result)
		if m.Duration > 0 {
			line += " " + m.Duration.Round(time.Millisecond).String()
		}
		if m.Cause != "" {
			line += " (" + m.Cause + ")"
		}
		_, _ = fmt.Fprintln(out, line)
	}

	mark := style.ResultMark(rep.Result)
	verdict := out.String(rep.Result.String()).Foreground(termenv.RGBColor(string(mark.Color))).Bold()
	_, _ = fmt.Fprintf(out, "Run #%d %s in %s", rep.RunNumber, verdict, rep.Duration.Round(time.Millisecond))
	if rep.Cause != "" {
		_, _ = fmt.Fprintf(out, ": %s", rep.Cause)
	}
	_, _ = fmt.Fprintln(out)
	if len(rep.Triggered) > 0 {
		_, _ = fmt.Fprintf(out, "Triggered %v\n", rep.Triggered)
	}
}
