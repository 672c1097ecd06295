package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a structured logger writing JSON to stdout.
// The level comes from LOG_LEVEL (debug, info, warn, error; default info).
func NewLogger() *slog.Logger {
	return newLogger(os.Stdout, false)
}

// NewTextLogger creates a logger with human-readable text output.
// This is useful for local benchmark runs.
func NewTextLogger() *slog.Logger {
	return newLogger(os.Stdout, true)
}

// NewFromEnv returns NewTextLogger when LOG_FORMAT=text and NewLogger otherwise.
func NewFromEnv() *slog.Logger {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		return NewTextLogger()
	}
	return NewLogger()
}

func newLogger(w io.Writer, text bool) *slog.Logger {
	level := levelFromEnv()
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	if text {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithOperationID stores a dispatch operation ID in the context so that every
// log line emitted while serving that call can be correlated.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operationIDContextKey, id)
}

// OperationIDFromContext returns the operation ID stored by WithOperationID, or "".
func OperationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(operationIDContextKey).(string)
	return id
}

// WithOperation returns a new logger that includes the operation ID from the context.
func WithOperation(ctx context.Context, logger *slog.Logger) *slog.Logger {
	id := OperationIDFromContext(ctx)
	if id == "" {
		return logger
	}
	return logger.With("operation_id", id)
}

// WithUnitOfWork returns a new logger tagged with a persistence context ID.
func WithUnitOfWork(logger *slog.Logger, id string) *slog.Logger {
	return logger.With("uow_id", id)
}

// WithFields returns a new logger with additional structured fields.
func WithFields(logger *slog.Logger, fields map[string]any) *slog.Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}

// FromContext returns the logger stored by WithLogger, or fallback.
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return fallback
}

// WithLogger stores logger in the context. Dispatch calls made with that
// context log through it instead of their persistence context's logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const (
	loggerContextKey      contextKey = "logger"
	operationIDContextKey contextKey = "operation_id"
)
