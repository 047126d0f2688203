package workflow

import (
	"context"

	"scribe/internal/versionstore"
)

// Acquired is the content produced by the acquisition step.
type Acquired struct {
	Content   string
	SourceURL string
	Label     string
}

// Acquirer fetches the raw chapter text for a URL.
type Acquirer interface {
	Fetch(ctx context.Context, url, label string) (Acquired, error)
}

// Transformer runs the automated rewrite and review passes. Retries belong
// to the implementation.
type Transformer interface {
	Rewrite(ctx context.Context, text string) (string, error)
	Review(ctx context.Context, text string) (string, error)
}

// Editor lets a human modify text. changed reports whether an edit was made.
type Editor interface {
	Edit(ctx context.Context, text string) (edited string, changed bool, err error)
}

// DiffPresenter renders before/after pairs for the operator.
type DiffPresenter interface {
	ShowDiff(before, after, beforeLabel, afterLabel string)
}

// Notifier announces finished and failed runs. Delivery failures never
// affect the run.
type Notifier interface {
	NotifyFinalized(ctx context.Context, title, versionID string) error
	NotifyHalted(ctx context.Context, err error, stage string) error
}

// Store is the subset of the version store the workflow needs.
type Store interface {
	Put(ctx context.Context, content string, metadata map[string]string) (string, error)
	Get(ctx context.Context, id string) (*versionstore.Version, error)
	Query(ctx context.Context, p versionstore.Predicate) ([]versionstore.Version, error)
}

// Collaborators bundles the external services the manager calls.
type Collaborators struct {
	Acquirer    Acquirer
	Transformer Transformer
	Editor      Editor
	Diffs       DiffPresenter
	Notifier    Notifier
}
