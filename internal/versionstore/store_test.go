package versionstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/services"
	"scribe/internal/testsupport"
	"scribe/internal/versionstore"
)

func TestPutGetRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg, versionstore.WithClock(testsupport.SequenceClock()))
	ctx := context.Background()

	meta := map[string]string{
		versionstore.KeyOriginalURL:  "https://example.com/ch1",
		versionstore.KeyChapterTitle: "Chapter 1",
		versionstore.KeyStage:        "raw",
		versionstore.KeyProcessedBy:  "scraper",
	}
	id, err := store.Put(ctx, "Once upon a time", meta)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected id to be assigned")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != id || got.Content != "Once upon a time" {
		t.Fatalf("unexpected version: %#v", got)
	}
	for key, want := range meta {
		if got.Metadata[key] != want {
			t.Fatalf("metadata %s = %q, want %q", key, got.Metadata[key], want)
		}
	}
	if got.Timestamp() != "2024-05-01T12:00:00.000000Z" {
		t.Fatalf("expected stamped timestamp, got %q", got.Timestamp())
	}
	if len(got.Metadata) != len(meta)+1 {
		t.Fatalf("unexpected metadata size: %v", got.Metadata)
	}
	if _, ok := meta[versionstore.KeyTimestamp]; ok {
		t.Fatal("Put must not mutate caller metadata")
	}
}

func TestPutKeepsExplicitTimestamp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	id := testsupport.MustPut(t, store, "text", map[string]string{versionstore.KeyTimestamp: "2020-01-01T00:00:00.000000Z"})
	got, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Timestamp() != "2020-01-01T00:00:00.000000Z" {
		t.Fatalf("timestamp overwritten: %q", got.Timestamp())
	}
}

func TestPutRejectsEmptyKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if _, err := store.Put(context.Background(), "text", map[string]string{" ": "x"}); err == nil {
		t.Fatal("expected error for empty metadata key")
	}
	count, err := store.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected nothing stored, got %d", count)
	}
}

func TestIDsAreUnique(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id := testsupport.MustPut(t, store, "same", map[string]string{versionstore.KeyStage: "raw"})
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s after %d writes", id, i)
		}
		seen[id] = struct{}{}
	}
}

func TestDuplicateIDFailsAtomically(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg, versionstore.WithIDGenerator(func() string { return "fixed" }))
	ctx := context.Background()

	testsupport.MustPut(t, store, "first", map[string]string{versionstore.KeyStage: "raw"})
	if _, err := store.Put(ctx, "second", map[string]string{versionstore.KeyStage: "final"}); err == nil {
		t.Fatal("expected primary key violation")
	}
	got, err := store.Get(ctx, "fixed")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != "first" || got.StageLabel() != "raw" {
		t.Fatalf("original version changed: %#v", got)
	}
	finals, err := store.Count(ctx, versionstore.Predicate{versionstore.KeyStage: "final"})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if finals != 0 {
		t.Fatalf("partial metadata became visible: %d", finals)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.Get(context.Background(), "does-not-exist")
	if !errors.Is(err, versionstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected services.ErrNotFound marker, got %v", err)
	}
}

func TestQueryConjunctiveEquality(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a := testsupport.MustPut(t, store, "a", map[string]string{versionstore.KeyOriginalURL: "u1", versionstore.KeyStage: "raw"})
	b := testsupport.MustPut(t, store, "b", map[string]string{versionstore.KeyOriginalURL: "u1", versionstore.KeyStage: "final"})
	testsupport.MustPut(t, store, "c", map[string]string{versionstore.KeyOriginalURL: "u2", versionstore.KeyStage: "final"})

	byURL, err := store.Query(ctx, versionstore.Predicate{versionstore.KeyOriginalURL: "u1"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(byURL) != 2 || byURL[0].ID != a || byURL[1].ID != b {
		t.Fatalf("unexpected url query result: %+v", byURL)
	}

	both, err := store.Query(ctx, versionstore.Predicate{versionstore.KeyOriginalURL: "u1", versionstore.KeyStage: "final"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(both) != 1 || both[0].ID != b || both[0].Content != "b" {
		t.Fatalf("unexpected conjunctive result: %+v", both)
	}

	none, err := store.Query(ctx, versionstore.Predicate{versionstore.KeyOriginalURL: "u3"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %+v", none)
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	empty, err := store.Query(ctx, versionstore.Predicate{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(all) != 3 || len(empty) != 3 {
		t.Fatalf("expected 3 versions from All and empty predicate, got %d and %d", len(all), len(empty))
	}
}

func TestStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	for _, stage := range []string{"raw", "raw", "AI_spun", "final"} {
		testsupport.MustPut(t, store, stage, map[string]string{versionstore.KeyStage: stage})
	}
	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["raw"] != 2 || stats["AI_spun"] != 1 || stats["final"] != 1 {
		t.Fatalf("unexpected stats: %v", stats)
	}
}

func TestStoredRowsRejectUpdateAndDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	id := testsupport.MustPut(t, store, "immutable", map[string]string{versionstore.KeyStage: "raw"})

	raw := testsupport.MustOpenSQL(t, store.Path())
	for _, stmt := range []string{
		"UPDATE versions SET content = 'changed' WHERE id = ?",
		"DELETE FROM versions WHERE id = ?",
		"UPDATE version_metadata SET value = 'final' WHERE version_id = ?",
		"DELETE FROM version_metadata WHERE version_id = ?",
	} {
		_, err := raw.Exec(stmt, id)
		if err == nil || !strings.Contains(err.Error(), "immutable") {
			t.Fatalf("expected immutability error for %q, got %v", stmt, err)
		}
	}
}

func TestReopenPreservesVersions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := versionstore.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id := testsupport.MustPut(t, store, "durable", map[string]string{versionstore.KeyStage: "raw"})
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	got, err := reopened.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.Content != "durable" {
		t.Fatalf("unexpected content after reopen: %q", got.Content)
	}
}

func TestSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	raw := testsupport.MustOpenSQL(t, store.Path())
	if _, err := raw.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump schema version: %v", err)
	}
	_ = raw.Close()

	_, err := versionstore.OpenPath(filepath.Join(cfg.Paths.DataDir, "versions.db"))
	if !errors.Is(err, versionstore.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenRejectsForeignDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	raw := testsupport.MustOpenSQL(t, path)
	if _, err := raw.Exec("CREATE TABLE notes (body TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	_ = raw.Close()

	_, err := versionstore.OpenPath(path)
	if !errors.Is(err, versionstore.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.MustPut(t, store, "one", nil)
	testsupport.MustPut(t, store, "two", nil)

	health, err := store.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.IntegrityCheck {
		t.Fatalf("unexpected health: %+v", health)
	}
	if health.SchemaVersion != 1 || health.TotalVersions != 2 {
		t.Fatalf("unexpected health counts: %+v", health)
	}
	if health.DBPath != cfg.DatabasePath() {
		t.Fatalf("unexpected path %q", health.DBPath)
	}
}
