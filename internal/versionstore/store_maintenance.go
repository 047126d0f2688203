package versionstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// CheckHealth inspects the database file, its schema version, integrity
// and size. Problems found inside the database land in DatabaseHealth.Error;
// the returned error is reserved for an unusable path.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}
	if s.path == "" {
		return health, errors.New("version database path is unknown")
	}

	switch info, err := os.Stat(s.path); {
	case errors.Is(err, fs.ErrNotExist):
		return health, nil
	case err != nil:
		return health, fmt.Errorf("stat version database: %w", err)
	case info.IsDir():
		return health, fmt.Errorf("version database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	probes := []func() error{
		func() (err error) {
			health.SchemaVersion, err = s.readSchemaVersion(ctx)
			return err
		},
		func() error {
			var verdict string
			if err := s.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&verdict); err != nil {
				return fmt.Errorf("integrity check: %w", err)
			}
			health.IntegrityCheck = verdict == "ok"
			return nil
		},
		func() (err error) {
			health.TotalVersions, err = s.Count(ctx, nil)
			return err
		},
	}
	for _, probe := range probes {
		if err := probe(); err != nil {
			health.Error = err.Error()
			break
		}
	}
	return health, nil
}
