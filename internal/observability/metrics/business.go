package metrics

import (
	"time"
)

// Outcome labels used by RecordDispatch.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// RecordDispatch records one dispatcher call.
// Outcome should be one of OutcomeSuccess, OutcomeInvalid or OutcomeError.
func RecordDispatch(operation, entity, outcome string, duration time.Duration) {
	DispatchTotal.WithLabelValues(operation, entity, outcome).Inc()
	DispatchDuration.WithLabelValues(operation, entity).Observe(duration.Seconds())
}

// RecordDispatchError records one status error of the given kind.
func RecordDispatchError(entity, kind string) {
	DispatchErrorsTotal.WithLabelValues(entity, kind).Inc()
}

// RecordSaveChanges records a SaveChanges call.
func RecordSaveChanges(duration time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	SaveChangesTotal.WithLabelValues(outcome).Inc()
	SaveChangesDuration.Observe(duration.Seconds())
}

// RecordRowWritten records a single row written during SaveChanges.
// Operation is "insert", "update" or "delete".
func RecordRowWritten(table, operation string) {
	RowsWrittenTotal.WithLabelValues(table, operation).Inc()
}

// RecordDBQuery records the duration of one SQL statement.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBenchmarkIteration records one benchmark iteration.
func RecordBenchmarkIteration(scenario string, duration time.Duration, err error) {
	BenchmarkIterationDuration.WithLabelValues(scenario).Observe(duration.Seconds())
	if err != nil {
		BenchmarkFailuresTotal.WithLabelValues(scenario).Inc()
	}
}
