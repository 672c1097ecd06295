package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDispatch(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		entity    string
		outcome   string
	}{
		{name: "successful update", operation: "update", entity: "Book", outcome: OutcomeSuccess},
		{name: "invalid delete", operation: "delete", entity: "Soft Del Entity", outcome: OutcomeInvalid},
		{name: "configuration error", operation: "update", entity: "", outcome: OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(DispatchTotal.WithLabelValues(tt.operation, tt.entity, tt.outcome))

			RecordDispatch(tt.operation, tt.entity, tt.outcome, 3*time.Millisecond)

			after := testutil.ToFloat64(DispatchTotal.WithLabelValues(tt.operation, tt.entity, tt.outcome))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestRecordDispatchError(t *testing.T) {
	before := testutil.ToFloat64(DispatchErrorsTotal.WithLabelValues("Book", "not_found"))

	RecordDispatchError("Book", "not_found")
	RecordDispatchError("Book", "not_found")

	assert.Equal(t, before+2, testutil.ToFloat64(DispatchErrorsTotal.WithLabelValues("Book", "not_found")))
}

func TestRecordSaveChanges(t *testing.T) {
	okBefore := testutil.ToFloat64(SaveChangesTotal.WithLabelValues(OutcomeSuccess))
	errBefore := testutil.ToFloat64(SaveChangesTotal.WithLabelValues(OutcomeError))

	RecordSaveChanges(time.Millisecond, nil)
	RecordSaveChanges(time.Millisecond, errors.New("commit failed"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(SaveChangesTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(SaveChangesTotal.WithLabelValues(OutcomeError)))
}

func TestRecordRowWritten(t *testing.T) {
	before := testutil.ToFloat64(RowsWrittenTotal.WithLabelValues("books", "update"))

	RecordRowWritten("books", "update")

	assert.Equal(t, before+1, testutil.ToFloat64(RowsWrittenTotal.WithLabelValues("books", "update")))
}

func TestRecordDBQuery(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordDBQuery("find", 2*time.Millisecond)
		RecordDBQuery("count", 0)
	})
}

func TestRecordBenchmarkIteration(t *testing.T) {
	before := testutil.ToFloat64(BenchmarkFailuresTotal.WithLabelValues("generic-method"))

	RecordBenchmarkIteration("generic-method", time.Millisecond, nil)
	RecordBenchmarkIteration("generic-method", time.Millisecond, errors.New("mismatch"))

	assert.Equal(t, before+1, testutil.ToFloat64(BenchmarkFailuresTotal.WithLabelValues("generic-method")))
}
