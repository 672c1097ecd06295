package persistence_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"crudkit/internal/persistence"
)

type widget struct {
	ID     int64
	Name   string
	Hidden bool
	MadeAt time.Time
}

func widgetMapping() *persistence.Mapping[widget] {
	return &persistence.Mapping[widget]{
		Name:      "Widget",
		Table:     "widgets",
		KeyColumn: "id",
		Columns:   []string{"name", "hidden", "made_at"},
		Key:       func(w *widget) int64 { return w.ID },
		SetKey:    func(w *widget, id int64) { w.ID = id },
		Values:    func(w *widget) []any { return []any{w.Name, w.Hidden, w.MadeAt} },
		Scan:      func(w *widget) []any { return []any{&w.ID, &w.Name, &w.Hidden, &w.MadeAt} },
		QueryFilter: &persistence.Filter{
			Clause: "hidden = ?",
			Args:   []any{false},
		},
	}
}

const widgetSchema = `
CREATE TABLE widgets (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	name    TEXT NOT NULL,
	hidden  BOOLEAN NOT NULL DEFAULT 0,
	made_at DATETIME NOT NULL
)`

// openSQLite returns an in-memory database with the widgets table.
// A single connection keeps every statement on the same in-memory database.
func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(widgetSchema)
	require.NoError(t, err)
	return db
}

func seedWidgets(t *testing.T, db *sql.DB, widgets ...widget) []int64 {
	t.Helper()
	pc := persistence.New(db)
	defer func() { _ = pc.Close() }()

	set := persistence.For(pc, widgetMapping())
	added := make([]*widget, 0, len(widgets))
	for i := range widgets {
		w := widgets[i]
		require.NoError(t, set.Add(&w))
		added = append(added, &w)
	}
	_, err := pc.SaveChanges(context.Background())
	require.NoError(t, err)

	ids := make([]int64, 0, len(added))
	for _, w := range added {
		ids = append(ids, w.ID)
	}
	return ids
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
