// Package resilience holds fault-tolerance helpers for database access.
//
//   - circuitbreaker: a gobreaker-backed wrapper around *sql.DB that can be
//     handed to persistence.New as its Executor.
//   - retry: exponential backoff for transient driver errors such as
//     dropped connections, PostgreSQL serialization failures and SQLite
//     busy errors.
//
// Usage Example:
//
//	guarded := circuitbreaker.NewDB(sqlDB)
//	pc := persistence.New(guarded, persistence.WithDialect(persistence.Postgres))
//
//	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
//	    return sqlDB.PingContext(ctx)
//	})
package resilience
