package db

import (
	"context"
	"fmt"

	"crudkit/internal/persistence"
)

var schema = map[persistence.Dialect][]string{
	persistence.SQLite: {
		`
CREATE TABLE IF NOT EXISTS books (
    book_id          INTEGER PRIMARY KEY AUTOINCREMENT,
    title            TEXT NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    published_on     DATETIME NOT NULL,
    publisher        TEXT NOT NULL DEFAULT '',
    price            REAL NOT NULL DEFAULT 0,
    actual_price     REAL NOT NULL DEFAULT 0,
    promotional_text TEXT NOT NULL DEFAULT '',
    image_url        TEXT NOT NULL DEFAULT ''
)`,
		`
CREATE TABLE IF NOT EXISTS soft_del_entities (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    soft_deleted BOOLEAN NOT NULL DEFAULT 0
)`,
		`CREATE INDEX IF NOT EXISTS idx_books_published_on ON books(published_on)`,
	},
	persistence.Postgres: {
		`
CREATE TABLE IF NOT EXISTS books (
    book_id          BIGSERIAL PRIMARY KEY,
    title            TEXT NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    published_on     TIMESTAMPTZ NOT NULL,
    publisher        VARCHAR(64) NOT NULL DEFAULT '',
    price            DOUBLE PRECISION NOT NULL DEFAULT 0,
    actual_price     DOUBLE PRECISION NOT NULL DEFAULT 0,
    promotional_text TEXT NOT NULL DEFAULT '',
    image_url        TEXT NOT NULL DEFAULT ''
)`,
		`
CREATE TABLE IF NOT EXISTS soft_del_entities (
    id           BIGSERIAL PRIMARY KEY,
    soft_deleted BOOLEAN NOT NULL DEFAULT FALSE
)`,
		`CREATE INDEX IF NOT EXISTS idx_books_published_on ON books(published_on)`,
		// Filtered reads only ever look at live rows.
		`CREATE INDEX IF NOT EXISTS idx_soft_del_entities_live ON soft_del_entities(id) WHERE soft_deleted = FALSE`,
	},
}

// MigrateUp creates the books and soft_del_entities tables.
// It is idempotent.
func MigrateUp(ctx context.Context, db persistence.Executor, dialect persistence.Dialect) error {
	stmts, ok := schema[dialect]
	if !ok {
		return fmt.Errorf("MigrateUp: no schema for dialect %s", dialect)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("MigrateUp: %w", err)
		}
	}
	return nil
}

// MigrateDown drops every table created by MigrateUp.
// Use with caution: this deletes all data in those tables.
func MigrateDown(ctx context.Context, db persistence.Executor) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_soft_del_entities_live`,
		`DROP INDEX IF EXISTS idx_books_published_on`,
		`DROP TABLE IF EXISTS soft_del_entities`,
		`DROP TABLE IF EXISTS books`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("MigrateDown: %w", err)
		}
	}
	return nil
}
