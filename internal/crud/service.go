// Package crud dispatches create, read, update and delete requests for
// registered DTO and entity types through a persistence.Context.
//
// Expected failures (missing entity, validation) are reported through the
// returned *status.Status. Configuration mistakes and storage failures are
// returned as Go errors.
package crud

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"crudkit/internal/domain/entity"
	"crudkit/internal/observability/logging"
	"crudkit/internal/observability/metrics"
	"crudkit/internal/observability/tracing"
	"crudkit/internal/persistence"
	"crudkit/internal/status"
)

// Service runs dispatch calls against one persistence.Context.
// Like the context, it is meant for a single logical operation.
type Service struct {
	pc     *persistence.Context
	reg    *Registry
	logger *slog.Logger
}

// NewService binds reg to pc.
func NewService(pc *persistence.Context, reg *Registry) *Service {
	return &Service{pc: pc, reg: reg, logger: pc.Logger()}
}

// Context returns the persistence context the service writes through.
func (s *Service) Context() *persistence.Context { return s.pc }

// Registry returns the registrations the service dispatches on.
func (s *Service) Registry() *Registry { return s.reg }

// call is the bookkeeping shared by every dispatch.
type call struct {
	svc       *Service
	operation string
	entity    string
	start     time.Time
	span      trace.Span
	logger    *slog.Logger
}

func (s *Service) begin(ctx context.Context, operation, entityName string, attrs ...attribute.KeyValue) (context.Context, *call) {
	if logging.OperationIDFromContext(ctx) == "" {
		ctx = logging.WithOperationID(ctx, uuid.NewString())
	}
	attrs = append(attrs,
		attribute.String("crud.operation", operation),
		attribute.String("crud.entity", entityName),
		attribute.String("uow.id", s.pc.ID()),
	)
	ctx, span := tracing.StartSpan(ctx, "crud."+operation, attrs...)
	return ctx, &call{
		svc:       s,
		operation: operation,
		entity:    entityName,
		start:     time.Now(),
		span:      span,
		logger: logging.WithFields(logging.WithOperation(ctx, s.baseLogger(ctx)), map[string]any{
			"operation": operation,
			"entity":    entityName,
		}),
	}
}

// baseLogger prefers a logger carried by ctx, tagged with this unit of work.
func (s *Service) baseLogger(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx, nil); logger != nil {
		return logging.WithUnitOfWork(logger, s.pc.ID())
	}
	return s.logger
}

// end records the outcome of a dispatch and passes its results through.
func (c *call) end(st *status.Status, err error) (*status.Status, error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
		if errors.Is(err, ErrConfiguration) {
			c.logger.Error("dispatch misconfigured", slog.Any("error", err))
		} else {
			c.logger.Error("dispatch failed", slog.Any("error", err))
		}
	case st != nil && !st.IsValid():
		outcome = metrics.OutcomeInvalid
		for _, e := range st.Errors() {
			metrics.RecordDispatchError(c.entity, string(e.Kind))
		}
		c.logger.Warn("dispatch rejected",
			slog.Int("errors", len(st.Errors())),
			slog.String("detail", st.GetAllErrors()),
		)
	case st != nil:
		c.logger.Debug("dispatch succeeded", slog.String("message", st.Message()))
	}
	c.span.SetAttributes(attribute.String("crud.outcome", outcome))
	metrics.RecordDispatch(c.operation, c.entity, outcome, time.Since(c.start))
	tracing.EndSpan(c.span, err)
	return st, err
}

// fail ends a call that produced only an error.
func (c *call) fail(err error) (*status.Status, error) {
	return c.end(nil, err)
}

// addValidation records a validation-class err on st. Any other error is
// returned unchanged.
func addValidation(st *status.Status, err error) error {
	if err == nil {
		return nil
	}
	if !entity.IsValidation(err) {
		return err
	}
	st.AddValidationError(err)
	return nil
}

func (s *Service) save(ctx context.Context) error {
	_, err := s.pc.SaveChanges(ctx)
	return err
}
