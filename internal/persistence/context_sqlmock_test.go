package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudkit/internal/persistence"
)

// ─────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────

func newMock(t *testing.T) (*persistence.Context, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return persistence.New(db, persistence.WithDialect(persistence.Postgres)), mock
}

func widgetRow(w widget) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "hidden", "made_at"}).
		AddRow(w.ID, w.Name, w.Hidden, w.MadeAt)
}

const (
	findSQL   = "SELECT id, name, hidden, made_at FROM widgets WHERE id = $1 AND (hidden = $2) LIMIT 1"
	updateSQL = "UPDATE widgets SET name = $1, hidden = $2, made_at = $3 WHERE id = $4"
	insertSQL = "INSERT INTO widgets (name, hidden, made_at) VALUES ($1, $2, $3) RETURNING id"
	deleteSQL = "DELETE FROM widgets WHERE id = $1"
)

// ─────────────────────────────────────────────
// 1. Find
// ─────────────────────────────────────────────

func TestSet_Find_PostgresPlaceholders(t *testing.T) {
	pc, mock := newMock(t)
	want := widget{ID: 7, Name: "gear", MadeAt: baseTime}

	mock.ExpectQuery(findSQL).
		WithArgs(int64(7), false).
		WillReturnRows(widgetRow(want))

	got, err := persistence.For(pc, widgetMapping()).Find(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSet_Find_QueryError(t *testing.T) {
	pc, mock := newMock(t)
	mock.ExpectQuery(findSQL).WillReturnError(errors.New("connection reset"))

	got, err := persistence.For(pc, widgetMapping()).Find(context.Background(), 7)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "Find")
}

// ─────────────────────────────────────────────
// 2. SaveChanges
// ─────────────────────────────────────────────

func TestContext_SaveChanges_SingleTransaction(t *testing.T) {
	pc, mock := newMock(t)
	set := persistence.For(pc, widgetMapping())
	ctx := context.Background()

	mock.ExpectQuery(findSQL).WithArgs(int64(1), false).
		WillReturnRows(widgetRow(widget{ID: 1, Name: "a", MadeAt: baseTime}))
	mock.ExpectQuery(findSQL).WithArgs(int64(2), false).
		WillReturnRows(widgetRow(widget{ID: 2, Name: "b", MadeAt: baseTime}))

	a, err := set.Find(ctx, 1)
	require.NoError(t, err)
	b, err := set.Find(ctx, 2)
	require.NoError(t, err)
	a.Name = "a2"
	require.NoError(t, set.Remove(b))
	c := &widget{Name: "c", MadeAt: baseTime}
	require.NoError(t, set.Add(c))

	mock.ExpectBegin()
	mock.ExpectExec(updateSQL).
		WithArgs("a2", false, baseTime, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteSQL).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(insertSQL).
		WithArgs("c", false, baseTime).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	n, err := pc.SaveChanges(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.EqualValues(t, 3, c.ID)
	assert.Len(t, pc.ChangeTracker().Entries(), 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContext_SaveChanges_RollbackKeepsTracking(t *testing.T) {
	pc, mock := newMock(t)
	set := persistence.For(pc, widgetMapping())
	ctx := context.Background()

	mock.ExpectQuery(findSQL).WithArgs(int64(1), false).
		WillReturnRows(widgetRow(widget{ID: 1, Name: "a", MadeAt: baseTime}))
	w, err := set.Find(ctx, 1)
	require.NoError(t, err)
	w.Name = "a2"
	added := &widget{Name: "new", MadeAt: baseTime}
	require.NoError(t, set.Add(added))

	mock.ExpectBegin()
	mock.ExpectExec(updateSQL).
		WithArgs("a2", false, baseTime, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(insertSQL).
		WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	n, err := pc.SaveChanges(ctx)

	require.Error(t, err)
	assert.Zero(t, n)
	assert.Contains(t, err.Error(), "insert widgets")
	assert.Equal(t, persistence.Modified, pc.ChangeTracker().State(w))
	assert.Equal(t, persistence.Added, pc.ChangeTracker().State(added))
	assert.Zero(t, added.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContext_SaveChanges_ConcurrencyConflict(t *testing.T) {
	pc, mock := newMock(t)
	set := persistence.For(pc, widgetMapping())
	w := &widget{ID: 9, Name: "ghost", MadeAt: baseTime}
	require.NoError(t, set.Remove(w))

	mock.ExpectBegin()
	mock.ExpectExec(deleteSQL).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := pc.SaveChanges(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrConcurrencyConflict)
	assert.Equal(t, persistence.Deleted, pc.ChangeTracker().State(w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContext_SaveChanges_BeginError(t *testing.T) {
	pc, mock := newMock(t)
	require.NoError(t, persistence.For(pc, widgetMapping()).Add(&widget{Name: "x", MadeAt: baseTime}))

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	_, err := pc.SaveChanges(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "BeginTx")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContext_SaveChanges_NothingPendingSkipsTransaction(t *testing.T) {
	pc, mock := newMock(t)

	n, err := pc.SaveChanges(context.Background())

	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContext_InsertWithExplicitKey(t *testing.T) {
	pc, mock := newMock(t)
	w := &widget{ID: 50, Name: "fixed", MadeAt: baseTime}
	require.NoError(t, persistence.For(pc, widgetMapping()).Add(w))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO widgets (id, name, hidden, made_at) VALUES ($1, $2, $3, $4) RETURNING id").
		WithArgs(int64(50), "fixed", false, baseTime).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(50)))
	mock.ExpectCommit()

	_, err := pc.SaveChanges(context.Background())

	require.NoError(t, err)
	assert.EqualValues(t, 50, w.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContext_Close_OwnedDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	pc := persistence.New(db, persistence.WithOwnedDB(db))
	require.NoError(t, pc.Close())

	require.NoError(t, mock.ExpectationsWereMet())
}
