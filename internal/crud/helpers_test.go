package crud_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"crudkit/internal/crud"
	"crudkit/internal/domain/entity"
	"crudkit/internal/infra/db"
	"crudkit/internal/persistence"
	"crudkit/internal/usecase/book"
	"crudkit/internal/usecase/softdelete"
)

// RenameDto maps straight onto Book without a domain operation.
type RenameDto struct {
	BookID int64
	Title  string
}

func newRegistry(t *testing.T) *crud.Registry {
	t.Helper()
	reg := crud.NewRegistry()
	require.NoError(t, book.Register(reg))
	require.NoError(t, softdelete.Register(reg))
	require.NoError(t, crud.RegisterDTO(reg, crud.DTOConfig[RenameDto, entity.Book]{
		Key: func(d RenameDto) int64 { return d.BookID },
	}))
	return reg
}

// openSeeded returns an in-memory database holding the four seed books.
func openSeeded(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	sqlDB, err := db.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = db.SeedDatabaseFourBooks(ctx, sqlDB, persistence.SQLite)
	require.NoError(t, err)
	return sqlDB
}

// newService returns a dispatcher bound to a fresh persistence context.
func newService(t *testing.T, sqlDB *sql.DB, reg *crud.Registry) *crud.Service {
	t.Helper()
	pc := persistence.New(sqlDB)
	t.Cleanup(func() { _ = pc.Close() })
	return crud.NewService(pc, reg)
}

// loadBook reads a book through a fresh context.
func loadBook(t *testing.T, sqlDB *sql.DB, id int64) *entity.Book {
	t.Helper()
	pc := persistence.New(sqlDB)
	defer func() { _ = pc.Close() }()
	b, err := persistence.For(pc, db.BookMapping()).Find(context.Background(), id)
	require.NoError(t, err)
	return b
}

func countSoftDel(t *testing.T, sqlDB *sql.DB) int64 {
	t.Helper()
	pc := persistence.New(sqlDB)
	defer func() { _ = pc.Close() }()
	n, err := persistence.For(pc, db.SoftDelEntityMapping()).IgnoreQueryFilters().Count(context.Background())
	require.NoError(t, err)
	return n
}
