// Package output builds termenv outputs for the renderers and the log handler.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Profile returns the color profile for w. NO_COLOR disables colors. CI
// logs get plain ANSI since their viewers rarely render more.
func Profile(ci bool) termenv.Profile {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return termenv.Ascii
	case ci:
		return termenv.ANSI
	default:
		return termenv.EnvColorProfile()
	}
}

// New creates an output for an interactive terminal. A nil w means stderr.
func New(w io.Writer) *termenv.Output {
	return newOutput(w, false)
}

// NewCI creates an output for line-oriented CI logs. A nil w means stderr.
func NewCI(w io.Writer) *termenv.Output {
	return newOutput(w, true)
}

func newOutput(w io.Writer, ci bool) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(Profile(ci)), termenv.WithTTY(true))
}
