// Package build holds build-time information.
package build

// Version is the application version.
// It defaults to "dev" and can be overwritten by linker flags.
var Version = "dev"

// Commit and Date are set by linker flags on release builds.
var (
	Commit = "none"
	Date   = "unknown"
)
