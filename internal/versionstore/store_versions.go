package versionstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Put writes a new immutable version and returns its id. A timestamp is
// stamped when metadata has none. The version row and all metadata rows are
// committed in one transaction.
func (s *Store) Put(ctx context.Context, content string, metadata map[string]string) (string, error) {
	meta := make(map[string]string, len(metadata)+1)
	for key, value := range metadata {
		key = strings.TrimSpace(key)
		if key == "" {
			return "", errors.New("put version: metadata key must not be empty")
		}
		meta[key] = value
	}
	if strings.TrimSpace(meta[KeyTimestamp]) == "" {
		meta[KeyTimestamp] = FormatTimestamp(s.now())
	}

	id := s.newID()
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO versions (id, content, created_at) VALUES (?, ?, ?)",
			id, content, meta[KeyTimestamp],
		); err != nil {
			return err
		}
		for key, value := range meta {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO version_metadata (version_id, key, value) VALUES (?, ?, ?)",
				id, key, value,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", fmt.Errorf("put version: %w", err)
	}
	return id, nil
}

// Get fetches a version by id.
func (s *Store) Get(ctx context.Context, id string) (*Version, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("get version: %w", ErrNotFound)
	}
	versions, err := s.queryVersions(ctx, "SELECT v.rowid, v.id, v.content FROM versions v WHERE v.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get version %s: %w", id, err)
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("get version %s: %w", id, ErrNotFound)
	}
	return &versions[0], nil
}

// Query returns every version whose metadata matches all pairs in p, in
// insertion order. An empty predicate returns all versions.
func (s *Store) Query(ctx context.Context, p Predicate) ([]Version, error) {
	where, args := predicateClause(p)
	versions, err := s.queryVersions(ctx, "SELECT v.rowid, v.id, v.content FROM versions v"+where+" ORDER BY v.rowid", args...)
	if err != nil {
		return nil, fmt.Errorf("query versions: %w", err)
	}
	return versions, nil
}

// All returns every stored version in insertion order.
func (s *Store) All(ctx context.Context) ([]Version, error) {
	return s.Query(ctx, nil)
}

// Count returns the number of versions matching p.
func (s *Store) Count(ctx context.Context, p Predicate) (int, error) {
	where, args := predicateClause(p)
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM versions v"+where, args...).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count versions: %w", err)
	}
	return count, nil
}

// Stats returns the number of versions per stored stage label.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)
	err := retryOnBusy(ctx, func() error {
		clear(stats)
		rows, err := s.db.QueryContext(ctx,
			"SELECT value, COUNT(1) FROM version_metadata WHERE key = ? GROUP BY value", KeyStage)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var stage string
			var count int
			if err := rows.Scan(&stage, &count); err != nil {
				return err
			}
			stats[stage] = count
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("version stats: %w", err)
	}
	return stats, nil
}
