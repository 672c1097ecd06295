// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch metrics track generic CRUD service calls
var (
	// DispatchTotal counts dispatcher calls by operation, entity and outcome
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crud_dispatch_total",
			Help: "Total number of CRUD dispatcher calls",
		},
		[]string{"operation", "entity", "outcome"},
	)

	// DispatchDuration measures dispatcher call duration in seconds
	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crud_dispatch_duration_seconds",
			Help:    "CRUD dispatcher call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"operation", "entity"},
	)

	// DispatchErrorsTotal counts status errors by kind (not_found, validation, business)
	DispatchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crud_dispatch_errors_total",
			Help: "Total number of errors recorded in dispatcher statuses",
		},
		[]string{"entity", "kind"},
	)
)

// Database metrics track persistence context performance
var (
	// SaveChangesTotal counts SaveChanges calls by outcome
	SaveChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_save_changes_total",
			Help: "Total number of SaveChanges calls",
		},
		[]string{"outcome"},
	)

	// SaveChangesDuration measures SaveChanges duration including commit
	SaveChangesDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "persistence_save_changes_duration_seconds",
			Help:    "SaveChanges duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
	)

	// RowsWrittenTotal counts rows written by table and statement kind
	RowsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_rows_written_total",
			Help: "Total number of rows inserted, updated or deleted",
		},
		[]string{"table", "operation"},
	)

	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"operation"},
	)
)

// Benchmark metrics are populated by the bench harness
var (
	// BenchmarkIterationDuration measures one scenario iteration
	BenchmarkIterationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bench_iteration_duration_seconds",
			Help:    "Duration of a single benchmark scenario iteration",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"scenario"},
	)

	// BenchmarkFailuresTotal counts failed iterations
	BenchmarkFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bench_iteration_failures_total",
			Help: "Total number of failed benchmark iterations",
		},
		[]string{"scenario"},
	)
)
