package circuitbreaker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"

	"crudkit/internal/persistence"
	"crudkit/internal/resilience/circuitbreaker"
)

var _ persistence.Executor = (*circuitbreaker.DB)(nil)

func fastDBConfig() circuitbreaker.Config {
	cfg := circuitbreaker.DBConfig()
	cfg.Timeout = 50 * time.Millisecond
	return cfg
}

func TestNewDB(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	guarded := circuitbreaker.NewDB(db)

	if guarded.Unwrap() != db {
		t.Error("expected Unwrap to return the wrapped database")
	}
	if guarded.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state Closed, got %s", guarded.State())
	}
}

func TestDB_QueryContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT (.+) FROM books").
		WillReturnRows(sqlmock.NewRows([]string{"book_id"}).AddRow(1))

	rows, err := circuitbreaker.NewDB(db).QueryContext(context.Background(), "SELECT book_id FROM books")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_ = rows.Close()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDB_OpensAfterConsecutiveFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	guarded := circuitbreaker.NewDBWithConfig(db, fastDBConfig())
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		mock.ExpectExec("UPDATE books").WillReturnError(errors.New("connection lost"))
	}
	for i := 0; i < 5; i++ {
		if _, err := guarded.ExecContext(ctx, "UPDATE books SET price = 1"); err == nil {
			t.Errorf("attempt %d: expected error", i+1)
		}
	}

	if !guarded.IsOpen() {
		t.Fatalf("expected open circuit, got %s", guarded.State())
	}
	_, err = guarded.BeginTx(ctx, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState from BeginTx, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDB_BeginTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := circuitbreaker.NewDB(db).BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDB_PingContext(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectPing()

	if err := circuitbreaker.NewDB(db).PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDB_LookupFailuresOpenCircuit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	type row struct {
		ID   int64
		Name string
	}
	m := &persistence.Mapping[row]{
		Table:     "rows",
		KeyColumn: "id",
		Columns:   []string{"name"},
		Key:       func(r *row) int64 { return r.ID },
		SetKey:    func(r *row, id int64) { r.ID = id },
		Values:    func(r *row) []any { return []any{r.Name} },
		Scan:      func(r *row) []any { return []any{&r.ID, &r.Name} },
	}
	guarded := circuitbreaker.NewDBWithConfig(db, fastDBConfig())
	pc := persistence.New(guarded)
	defer func() { _ = pc.Close() }()
	rows := persistence.For(pc, m)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mock.ExpectQuery("SELECT (.+) FROM rows WHERE id = ?").WillReturnError(errors.New("connection lost"))
	}
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM rows").WillReturnError(errors.New("connection lost"))
	mock.ExpectQuery("SELECT (.+) FROM rows WHERE id = ?").WillReturnError(errors.New("connection lost"))

	for i := 0; i < 3; i++ {
		if _, err := rows.Find(ctx, 1); err == nil {
			t.Errorf("Find attempt %d: expected error", i+1)
		}
	}
	if _, err := rows.Count(ctx); err == nil {
		t.Error("Count: expected error")
	}
	if _, err := rows.Find(ctx, 1); err == nil {
		t.Error("Find: expected error")
	}

	if !guarded.IsOpen() {
		t.Fatalf("expected open circuit, got %s", guarded.State())
	}
	if _, err := rows.Find(ctx, 1); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState from Find, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDB_AsPersistenceExecutor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	type row struct {
		ID   int64
		Name string
	}
	m := &persistence.Mapping[row]{
		Table:     "rows",
		KeyColumn: "id",
		Columns:   []string{"name"},
		Key:       func(r *row) int64 { return r.ID },
		SetKey:    func(r *row, id int64) { r.ID = id },
		Values:    func(r *row) []any { return []any{r.Name} },
		Scan:      func(r *row) []any { return []any{&r.ID, &r.Name} },
	}

	pc := persistence.New(circuitbreaker.NewDB(db))
	defer func() { _ = pc.Close() }()
	if err := persistence.For(pc, m).Add(&row{Name: "x"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO rows").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	n, err := pc.SaveChanges(context.Background())
	if err != nil {
		t.Fatalf("SaveChanges: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row written, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
