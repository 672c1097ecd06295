package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"github.com/sony/gobreaker"
)

// DB wraps a *sql.DB with circuit breaker protection. It satisfies
// persistence.Executor, so a persistence context can run on top of it.
type DB struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig returns configuration for database circuit breakers.
// Opens after 5 consecutive failures and probes again after 30 seconds.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

// NewDB wraps db with the DBConfig breaker.
func NewDB(db *sql.DB) *DB {
	return NewDBWithConfig(db, DBConfig())
}

// NewDBWithConfig wraps db with a breaker built from cfg.
func NewDBWithConfig(db *sql.DB, cfg Config) *DB {
	return &DB{cb: New(cfg), db: db}
}

// QueryContext executes a query with circuit breaker protection.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	result, err := d.cb.Execute(func() (interface{}, error) {
		return d.db.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sql.Rows), nil
}

// ExecContext executes a statement with circuit breaker protection.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := d.cb.Execute(func() (interface{}, error) {
		return d.db.ExecContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(sql.Result), nil
}

// BeginTx starts a transaction with circuit breaker protection. Statements
// inside the transaction go straight to the driver.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	result, err := d.cb.Execute(func() (interface{}, error) {
		return d.db.BeginTx(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sql.Tx), nil
}

// PingContext checks the connection with circuit breaker protection.
func (d *DB) PingContext(ctx context.Context) error {
	_, err := d.cb.Execute(func() (interface{}, error) {
		return nil, d.db.PingContext(ctx)
	})
	return err
}

// State returns the current state of the circuit breaker.
func (d *DB) State() gobreaker.State {
	return d.cb.State()
}

// IsOpen returns true if the circuit breaker is in the open state.
func (d *DB) IsOpen() bool {
	return d.cb.IsOpen()
}

// Unwrap returns the underlying database.
func (d *DB) Unwrap() *sql.DB {
	return d.db
}
