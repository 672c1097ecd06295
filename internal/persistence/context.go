// Package persistence provides a small unit of work over database/sql:
// typed entity sets, an identity map with change tracking, and a
// transactional SaveChanges.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"crudkit/internal/observability/logging"
	"crudkit/internal/observability/metrics"
	"crudkit/internal/observability/tracing"
)

var (
	// ErrClosed is returned by operations on a closed Context.
	ErrClosed = errors.New("persistence context is closed")
	// ErrConcurrencyConflict is returned when an UPDATE or DELETE matched no row.
	ErrConcurrencyConflict = errors.New("expected one row to be affected")
)

// Executor is the database surface a Context needs.
// *sql.DB and the circuit-breaker wrapper both satisfy it.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Option configures a Context.
type Option func(*Context)

// WithDialect sets the SQL dialect. The default is SQLite.
func WithDialect(d Dialect) Option {
	return func(c *Context) { c.dialect = d }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOwnedDB makes Close also close db.
func WithOwnedDB(db *sql.DB) Option {
	return func(c *Context) { c.owned = db }
}

// Context is a unit of work bound to one database connection pool.
// It is not safe for concurrent use.
type Context struct {
	db      Executor
	dialect Dialect
	logger  *slog.Logger
	id      string
	tracker *ChangeTracker
	owned   *sql.DB
	closed  bool
}

// New creates a Context over db.
func New(db Executor, opts ...Option) *Context {
	c := &Context{
		db:      db,
		dialect: SQLite,
		logger:  slog.Default(),
		id:      uuid.NewString(),
		tracker: newChangeTracker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithUnitOfWork(c.logger, c.id)
	return c
}

// ID returns the unit-of-work identifier used in logs and spans.
func (c *Context) ID() string { return c.id }

// Dialect returns the configured dialect.
func (c *Context) Dialect() Dialect { return c.dialect }

// Logger returns the unit-of-work scoped logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// ChangeTracker returns the identity map of this Context.
func (c *Context) ChangeTracker() *ChangeTracker { return c.tracker }

// Close discards tracked state and closes the owned database, if any.
// Calling Close more than once is a no-op.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.tracker.Clear()
	if c.owned != nil {
		if err := c.owned.Close(); err != nil {
			return fmt.Errorf("Close: %w", err)
		}
	}
	return nil
}

type pendingWrite struct {
	entry  *entry
	state  EntryState
	newKey int64
}

// SaveChanges writes every pending change inside one transaction and
// returns the number of rows written. On failure the transaction is rolled
// back and tracking state is left as it was.
func (c *Context) SaveChanges(ctx context.Context) (n int, err error) {
	if c.closed {
		return 0, ErrClosed
	}

	ctx, span := tracing.StartSpan(ctx, "persistence.SaveChanges",
		attribute.String("uow.id", c.id),
	)
	start := time.Now()
	defer func() {
		metrics.RecordSaveChanges(time.Since(start), err)
		tracing.EndSpan(span, err)
	}()

	var pending []*pendingWrite
	for _, e := range c.tracker.entries {
		if state := e.currentState(); state != Unchanged {
			pending = append(pending, &pendingWrite{entry: e, state: state})
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("SaveChanges: BeginTx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				c.logger.Error("rollback failed", slog.Any("error", rbErr))
			}
		}
	}()

	for _, p := range pending {
		if err = c.flush(ctx, tx, p); err != nil {
			return 0, fmt.Errorf("SaveChanges: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("SaveChanges: Commit: %w", err)
	}

	for _, p := range pending {
		if p.state == Added {
			p.entry.bind.setKey(p.newKey)
		}
		c.tracker.accept(p.entry, p.state)
	}

	span.SetAttributes(attribute.Int("rows.written", len(pending)))
	c.logger.Debug("changes saved", slog.Int("rows", len(pending)))
	return len(pending), nil
}

func (c *Context) flush(ctx context.Context, tx *sql.Tx, p *pendingWrite) error {
	b := p.entry.bind
	switch p.state {
	case Added:
		query, args := b.insertSQL, b.values()
		if key := b.key(); key != 0 {
			query, args = b.insertKey, append([]any{key}, args...)
		}
		start := time.Now()
		err := tx.QueryRowContext(ctx, c.dialect.Rebind(query), args...).Scan(&p.newKey)
		metrics.RecordDBQuery("insert", time.Since(start))
		if err != nil {
			return fmt.Errorf("insert %s: %w", b.table, err)
		}
		metrics.RecordRowWritten(b.table, "insert")
	case Modified:
		args := append(b.values(), b.key())
		if err := c.exec(ctx, tx, "update", b.table, b.updateSQL, args); err != nil {
			return err
		}
	case Deleted:
		if err := c.exec(ctx, tx, "delete", b.table, b.deleteSQL, []any{b.key()}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) exec(ctx context.Context, tx *sql.Tx, op, table, query string, args []any) error {
	start := time.Now()
	res, err := tx.ExecContext(ctx, c.dialect.Rebind(query), args...)
	metrics.RecordDBQuery(op, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: RowsAffected: %w", op, table, err)
	}
	if affected != 1 {
		return fmt.Errorf("%s %s: %w (got %d)", op, table, ErrConcurrencyConflict, affected)
	}
	metrics.RecordRowWritten(table, op)
	return nil
}
