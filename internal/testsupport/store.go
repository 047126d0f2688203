package testsupport

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"scribe/internal/config"
	"scribe/internal/versionstore"
)

// MustOpenStore opens a versionstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config, opts ...versionstore.Option) *versionstore.Store {
	t.Helper()

	store, err := versionstore.Open(cfg, opts...)
	if err != nil {
		t.Fatalf("versionstore.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustPut stores a version and returns its id.
func MustPut(t testing.TB, store *versionstore.Store, content string, metadata map[string]string) string {
	t.Helper()

	id, err := store.Put(context.Background(), content, metadata)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	return id
}

// SequenceClock returns a clock that advances by one second per call starting
// at a fixed instant.
func SequenceClock() func() time.Time {
	current := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := current
		current = current.Add(time.Second)
		return now
	}
}

// MustOpenSQL opens a raw SQLite handle on path for assertions that bypass the store API.
func MustOpenSQL(t testing.TB, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite %s: %v", path, err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
