// Package ports defines the core interfaces for the application.
package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	// Debug logs only when verbose logging is enabled.
	Debug(msg string, args ...any)
	Error(err error)

	// SetJSON switches between JSON and pretty output.
	SetJSON(enable bool)
	// SetVerbose lowers the level to debug.
	SetVerbose(enable bool)
}
