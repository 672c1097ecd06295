// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Operation and unit-of-work ID propagation
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	import "crudkit/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewFromEnv() // LOG_FORMAT=text for text output
//	    logger.Info("application started", slog.String("version", "1.0"))
//	}
//
//	func dispatch(ctx context.Context) {
//	    logger := logging.WithOperation(ctx, slog.Default())
//	    logger.Info("dispatching update")
//	}
package logging
