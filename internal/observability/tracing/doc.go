// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created around CRUD dispatch calls and around SaveChanges of a
// persistence context. No exporter is configured here; cmd wiring or tests
// install a TracerProvider through otel.SetTracerProvider.
//
// Example usage:
//
//	import "crudkit/internal/observability/tracing"
//
//	func save(ctx context.Context) (err error) {
//	    ctx, span := tracing.StartSpan(ctx, "persistence.SaveChanges")
//	    defer func() { tracing.EndSpan(span, err) }()
//	    // ... flush changes ...
//	    return nil
//	}
package tracing
