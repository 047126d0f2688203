package versionstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

const metadataBatchSize = 500

func newVersionID() string {
	return uuid.NewString()
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}

// predicateClause renders p as EXISTS subqueries against version_metadata.
func predicateClause(p Predicate) (string, []any) {
	if len(p) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM version_metadata m WHERE m.version_id = v.id AND m.key = ? AND m.value = ?)")
		args = append(args, key, p[key])
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) queryVersions(ctx context.Context, query string, args ...any) ([]Version, error) {
	var versions []Version
	err := retryOnBusy(ctx, func() error {
		versions = versions[:0]
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var v Version
			if err := rows.Scan(&v.Seq, &v.ID, &v.Content); err != nil {
				return err
			}
			versions = append(versions, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if err := s.attachMetadata(ctx, versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func (s *Store) attachMetadata(ctx context.Context, versions []Version) error {
	if len(versions) == 0 {
		return nil
	}
	index := make(map[string]int, len(versions))
	for i := range versions {
		versions[i].Metadata = map[string]string{}
		index[versions[i].ID] = i
	}

	for start := 0; start < len(versions); start += metadataBatchSize {
		end := min(start+metadataBatchSize, len(versions))
		args := make([]any, 0, end-start)
		for _, v := range versions[start:end] {
			args = append(args, v.ID)
		}
		query := "SELECT version_id, key, value FROM version_metadata WHERE version_id IN (" + makePlaceholders(len(args)) + ")"
		err := retryOnBusy(ctx, func() error {
			rows, err := s.db.QueryContext(ctx, query, args...)
			if err != nil {
				return err
			}
			defer rows.Close()
			for rows.Next() {
				var id, key, value string
				if err := rows.Scan(&id, &key, &value); err != nil {
					return err
				}
				if i, ok := index[id]; ok {
					versions[i].Metadata[key] = value
				}
			}
			return rows.Err()
		})
		if err != nil {
			return fmt.Errorf("load metadata: %w", err)
		}
	}
	return nil
}
