// Package detector picks the renderer for a run: the interactive TUI on a
// terminal, linear output in CI and when stdout is redirected.
package detector

import (
	"os"
	"strings"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode of a run.
type OutputMode int

const (
	// ModeAuto defers to environment detection.
	ModeAuto OutputMode = iota
	// ModeTUI selects the interactive TUI renderer.
	ModeTUI
	// ModeLinear selects the linear renderer.
	ModeLinear
)

func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// ciMarkers are variables set by CI servers. A non-empty value other than
// "false" or "0" marks a CI build.
var ciMarkers = []string{"CI", "JENKINS_URL", "BUILD_NUMBER", "GITHUB_ACTIONS", "GITLAB_CI"}

// Detect returns the mode for an environment read through getenv, given
// whether stdout is a terminal.
func Detect(getenv func(string) string, tty bool) OutputMode {
	if !tty || getenv("TERM") == "dumb" {
		return ModeLinear
	}
	for _, name := range ciMarkers {
		switch v := strings.ToLower(getenv(name)); v {
		case "", "false", "0":
		default:
			return ModeLinear
		}
	}
	return ModeTUI
}

// DetectEnvironment detects the mode of the current process.
func DetectEnvironment() OutputMode {
	return Detect(os.Getenv, term.IsTerminal(int(os.Stdout.Fd())))
}

// ParseMode parses an --output-mode value: "auto", "tui", "linear" or its alias "ci".
func ParseMode(flag string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "", "auto":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown output mode"), "mode", flag)
	}
}

// ResolveMode applies the user's --output-mode over the detected mode.
func ResolveMode(detected OutputMode, flag string) (OutputMode, error) {
	mode, err := ParseMode(flag)
	if err != nil {
		return detected, err
	}
	if mode == ModeAuto {
		return detected, nil
	}
	return mode, nil
}
