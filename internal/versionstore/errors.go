package versionstore

import (
	"fmt"

	"scribe/internal/services"
)

// ErrNotFound reports a missing version. It matches services.ErrNotFound.
var ErrNotFound = fmt.Errorf("version %w", services.ErrNotFound)
