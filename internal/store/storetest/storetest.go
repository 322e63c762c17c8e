// Package storetest opens a migrated Postgres database for tests.
package storetest

import (
	"context"
	"os"
	"testing"

	"ehsas/internal/store"
)

// OpenDB connects to TEST_DATABASE_URL, applies the schema and empties every table.
// The test is skipped when the variable is unset or the database is unreachable.
func OpenDB(t testing.TB) *store.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres test")
	}
	ctx := context.Background()
	db, err := store.NewDB(ctx, dsn)
	if err != nil {
		t.Skipf("could not connect to postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.Client.ExecContext(ctx,
		`TRUNCATE TABLE admins, alumni, batch_sequences, notifications, events, spotlight`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

// RedisAddr returns TEST_REDIS_ADDR or skips the test.
func RedisAddr(t testing.TB) string {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis test")
	}
	return addr
}
