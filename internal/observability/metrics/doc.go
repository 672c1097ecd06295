// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - CRUD dispatcher metrics (calls, duration, status errors)
//   - Persistence metrics (SaveChanges, rows written, query duration)
//   - Benchmark harness metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint of cmd/bench when enabled.
//
// Example usage:
//
//	import "crudkit/internal/observability/metrics"
//
//	func update(ctx context.Context) {
//	    start := time.Now()
//	    // ... dispatch ...
//	    metrics.RecordDispatch("update", "Book", metrics.OutcomeSuccess, time.Since(start))
//	}
package metrics
