package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudkit/internal/domain/entity"
	"crudkit/internal/persistence"
)

func TestMigrateUp_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS books").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS soft_del_entities").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_books_published_on").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_soft_del_entities_live").WillReturnResult(sqlmock.NewResult(0, 0))

	err = MigrateUp(context.Background(), db, persistence.Postgres)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS books").WillReturnError(assert.AnError)

	err = MigrateUp(context.Background(), db, persistence.Postgres)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestMigrateUp_SQLiteIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := OpenInMemory(ctx)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, MigrateUp(ctx, db, persistence.SQLite))
}

func TestMigrateDown(t *testing.T) {
	ctx := context.Background()
	db, err := OpenInMemory(ctx)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, MigrateDown(ctx, db))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'books'`).Scan(&n))
	assert.Zero(t, n)
}

func TestSeedDatabaseFourBooks(t *testing.T) {
	ctx := context.Background()
	db, err := OpenInMemory(ctx)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	n, err := SeedDatabaseFourBooks(ctx, db, persistence.SQLite)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	again, err := SeedDatabaseFourBooks(ctx, db, persistence.SQLite)
	require.NoError(t, err)
	assert.Zero(t, again, "seeding a populated table must be a no-op")

	pc := persistence.New(db)
	defer func() { _ = pc.Close() }()
	book, err := persistence.For(pc, BookMapping()).Find(ctx, QuantumBookID)
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "Quantum Networking", book.Title)
	assert.True(t, time.Date(2057, 1, 1, 0, 0, 0, 0, time.UTC).Equal(book.PublishedOn))
	assert.True(t, book.HasPromotion())
	assert.Equal(t, 219.0, book.ActualPrice)
}

func TestFourBooks_Valid(t *testing.T) {
	for _, b := range FourBooks() {
		assert.NoError(t, b.Validate(), b.Title)
	}
}

func TestSoftDelEntityMapping_QueryFilter(t *testing.T) {
	ctx := context.Background()
	db, err := OpenInMemory(ctx)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	hidden, err := SeedSoftDelEntity(ctx, db, persistence.SQLite, true)
	require.NoError(t, err)
	_, err = SeedSoftDelEntity(ctx, db, persistence.SQLite, false)
	require.NoError(t, err)

	pc := persistence.New(db)
	defer func() { _ = pc.Close() }()
	set := persistence.For(pc, SoftDelEntityMapping())

	visible, err := set.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, visible)

	all, err := set.IgnoreQueryFilters().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all)

	got, err := set.IgnoreQueryFilters().Find(ctx, hidden)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.SoftDelEntity{ID: hidden, SoftDeleted: true}, *got)
}
