package db

import (
	"context"
	"fmt"
	"time"

	"crudkit/internal/domain/entity"
	"crudkit/internal/persistence"
)

// QuantumBookID is the key of the fourth seeded book, the one the
// benchmarks update.
const QuantumBookID int64 = 4

// FourBooks returns the seed books in insertion order, without keys.
func FourBooks() []*entity.Book {
	books := []*entity.Book{
		{
			Title:       "Refactoring",
			Description: "Improving the design of existing code",
			PublishedOn: time.Date(1999, 7, 8, 0, 0, 0, 0, time.UTC),
			Publisher:   "Addison-Wesley",
			Price:       40,
			ActualPrice: 40,
		},
		{
			Title:       "Patterns of Enterprise Application Architecture",
			Description: "Written in direct response to the stiff challenges",
			PublishedOn: time.Date(2002, 11, 15, 0, 0, 0, 0, time.UTC),
			Publisher:   "Addison-Wesley",
			Price:       53,
			ActualPrice: 53,
		},
		{
			Title:       "Domain-Driven Design",
			Description: "Linking business needs to software design",
			PublishedOn: time.Date(2003, 8, 30, 0, 0, 0, 0, time.UTC),
			Publisher:   "Addison-Wesley",
			Price:       56,
			ActualPrice: 56,
		},
		{
			Title:       "Quantum Networking",
			Description: "Entangled quantum networking",
			PublishedOn: time.Date(2057, 1, 1, 0, 0, 0, 0, time.UTC),
			Publisher:   "Future Publishing",
			Price:       220,
			ActualPrice: 220,
		},
	}
	// The seed data is constant, so the promotion is always accepted.
	_ = books[3].AddPromotion(219, "Save $1 if you order 40 years ahead!")
	return books
}

// SeedDatabaseFourBooks inserts FourBooks when the books table is empty and
// returns the number of books inserted.
func SeedDatabaseFourBooks(ctx context.Context, db persistence.Executor, dialect persistence.Dialect) (int, error) {
	pc := persistence.New(db, persistence.WithDialect(dialect))
	defer func() { _ = pc.Close() }()

	books := persistence.For(pc, BookMapping())
	n, err := books.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("SeedDatabaseFourBooks: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	for _, b := range FourBooks() {
		if err := books.Add(b); err != nil {
			return 0, fmt.Errorf("SeedDatabaseFourBooks: %w", err)
		}
	}
	written, err := pc.SaveChanges(ctx)
	if err != nil {
		return 0, fmt.Errorf("SeedDatabaseFourBooks: %w", err)
	}
	return written, nil
}

// SeedSoftDelEntity inserts one SoftDelEntity and returns its key.
func SeedSoftDelEntity(ctx context.Context, db persistence.Executor, dialect persistence.Dialect, softDeleted bool) (int64, error) {
	pc := persistence.New(db, persistence.WithDialect(dialect))
	defer func() { _ = pc.Close() }()

	e := &entity.SoftDelEntity{SoftDeleted: softDeleted}
	if err := persistence.For(pc, SoftDelEntityMapping()).Add(e); err != nil {
		return 0, fmt.Errorf("SeedSoftDelEntity: %w", err)
	}
	if _, err := pc.SaveChanges(ctx); err != nil {
		return 0, fmt.Errorf("SeedSoftDelEntity: %w", err)
	}
	return e.ID, nil
}
