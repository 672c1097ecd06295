package benchmark

import (
	"context"
	"testing"

	"crudkit/internal/infra/db"
	"crudkit/internal/persistence"
)

func BenchmarkUpdatePublishedOn(b *testing.B) {
	ctx := context.Background()
	sqlDB, err := db.OpenInMemory(ctx)
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = sqlDB.Close() }()
	if _, err := db.SeedDatabaseFourBooks(ctx, sqlDB, persistence.SQLite); err != nil {
		b.Fatal(err)
	}
	env, err := NewEnv(sqlDB, persistence.SQLite, nil)
	if err != nil {
		b.Fatal(err)
	}

	for _, s := range Scenarios() {
		b.Run(s.Name, func(b *testing.B) {
			b.ReportAllocs()
			i := 0
			for b.Loop() {
				if err := s.Run(ctx, env, Iteration{Index: i}); err != nil {
					b.Fatal(err)
				}
				i++
			}
		})
	}
}
