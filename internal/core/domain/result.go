package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Result is the severity of a build, ordered from best to worst.
type Result int

const (
	// ResultSuccess means the build completed without problems.
	ResultSuccess Result = iota
	// ResultUnstable means the build completed but reported problems such as test failures.
	ResultUnstable
	// ResultFailure means the build failed.
	ResultFailure
	// ResultNotBuilt means the module was never built in this run.
	ResultNotBuilt
	// ResultAborted means the build was interrupted.
	ResultAborted
)

var resultNames = [...]string{"SUCCESS", "UNSTABLE", "FAILURE", "NOT_BUILT", "ABORTED"}

// String returns the canonical upper case name.
func (r Result) String() string {
	if r < ResultSuccess || r > ResultAborted {
		return "UNKNOWN"
	}
	return resultNames[r]
}

// ParseResult parses a result name, case insensitively.
func ParseResult(s string) (Result, error) {
	for i, name := range resultNames {
		if strings.EqualFold(s, name) {
			return Result(i), nil
		}
	}
	return ResultFailure, zerr.With(zerr.Wrap(ErrUnknownResult, s), "result", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Result) UnmarshalText(text []byte) error {
	parsed, err := ParseResult(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// IsWorseThan reports whether r is more severe than other.
func (r Result) IsWorseThan(other Result) bool {
	return r > other
}

// IsBetterOrEqual reports whether r is at most as severe as threshold.
func (r Result) IsBetterOrEqual(threshold Result) bool {
	return r <= threshold
}

// IsCompleteBuild reports whether the module ran to completion, successfully or not.
func (r Result) IsCompleteBuild() bool {
	return r == ResultSuccess || r == ResultUnstable || r == ResultFailure
}

// BlocksDownstream reports whether modules depending on a module with this
// result must not be dispatched.
func (r Result) BlocksDownstream() bool {
	return r == ResultFailure || r == ResultAborted
}

// Worst returns the more severe of a and b.
func Worst(a, b Result) Result {
	return max(a, b)
}

// Combine folds the orchestrator's own result with every module result.
// NOT_BUILT module results are ignored: a module with nothing to do must not
// drag a healthy run down.
func Combine(own Result, modules ...Result) Result {
	composite := own
	for _, r := range modules {
		if r == ResultNotBuilt {
			continue
		}
		composite = Worst(composite, r)
	}
	return composite
}
