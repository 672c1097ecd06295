// Package db opens and prepares the database used by the persistence layer:
// connection pooling, schema migration, seed data and the table mappings of
// the domain entities.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"crudkit/internal/persistence"
	"crudkit/internal/resilience/retry"
	"crudkit/pkg/config"
)

// MemoryDSN is the SQLite DSN of a private in-memory database.
const MemoryDSN = ":memory:"

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// Config selects the database to open.
type Config struct {
	Dialect persistence.Dialect
	DSN     string
	Pool    ConnectionConfig
	// PingTimeout bounds each connection check.
	PingTimeout time.Duration
}

// ConfigFromEnv reads DB_DIALECT, DATABASE_URL and the DB_* pool settings.
// Without DATABASE_URL an in-memory SQLite database is used.
func ConfigFromEnv() (Config, error) {
	dialect, err := persistence.ParseDialect(config.GetEnvString("DB_DIALECT", "sqlite"))
	if err != nil {
		return Config{}, fmt.Errorf("DB_DIALECT: %w", err)
	}
	dsn := config.GetEnvString("DATABASE_URL", "")
	if dsn == "" {
		if dialect == persistence.Postgres {
			return Config{}, fmt.Errorf("DATABASE_URL is required for dialect %s", dialect)
		}
		dsn = MemoryDSN
	}
	return Config{
		Dialect:     dialect,
		DSN:         dsn,
		Pool:        getConnectionConfigFromEnv(),
		PingTimeout: config.GetEnvDuration("DB_PING_TIMEOUT", 5*time.Second),
	}, nil
}

// IsMemory reports whether cfg points at an in-memory SQLite database.
func (c Config) IsMemory() bool {
	return c.Dialect == persistence.SQLite &&
		(c.DSN == MemoryDSN || strings.Contains(c.DSN, "mode=memory"))
}

// Open creates and configures a connection pool and verifies it with a
// retried ping.
//
// An in-memory SQLite database lives inside a single connection, so its
// pool is pinned to one connection that never expires.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Dialect.DriverName(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Dialect, err)
	}

	pool := cfg.Pool
	if cfg.IsMemory() {
		pool = ConnectionConfig{MaxOpenConns: 1, MaxIdleConns: 1}
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("dialect", cfg.Dialect.String()),
		slog.Int("max_open_conns", pool.MaxOpenConns),
		slog.Int("max_idle_conns", pool.MaxIdleConns),
		slog.Duration("conn_max_lifetime", pool.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", pool.ConnMaxIdleTime))

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	err = retry.WithBackoff(ctx, retry.DBConfig(), func() error {
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Dialect, err)
	}

	slog.Info("database connection established successfully")
	return db, nil
}

// getConnectionConfigFromEnv applies the DB_MAX_* and DB_CONN_* overrides.
// Values that are not positive keep the default.
func getConnectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()
	if v := config.GetEnvInt("DB_MAX_OPEN_CONNS", 0); v > 0 {
		cfg.MaxOpenConns = v
	}
	if v := config.GetEnvInt("DB_MAX_IDLE_CONNS", 0); v > 0 {
		cfg.MaxIdleConns = v
	}
	if v := config.GetEnvDuration("DB_CONN_MAX_LIFETIME", 0); v > 0 {
		cfg.ConnMaxLifetime = v
	}
	if v := config.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", 0); v > 0 {
		cfg.ConnMaxIdleTime = v
	}
	return cfg
}

// OpenInMemory opens a private in-memory SQLite database and applies the
// schema. Tests and the default benchmark run use it.
func OpenInMemory(ctx context.Context) (*sql.DB, error) {
	db, err := Open(ctx, Config{Dialect: persistence.SQLite, DSN: MemoryDSN})
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(ctx, db, persistence.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
