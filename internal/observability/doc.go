// Package observability provides the observability infrastructure shared by
// the CRUD dispatcher, the persistence context and the benchmark harness:
// structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry span helpers
//
// Example usage:
//
//	import (
//	    "crudkit/internal/observability/logging"
//	    "crudkit/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("benchmark started")
//
//	    metrics.RecordDispatch("update", "Book", metrics.OutcomeSuccess, time.Millisecond)
//	}
package observability
