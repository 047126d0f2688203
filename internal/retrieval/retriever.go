package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scribe/internal/versionstore"
)

// Store is the subset of the version store the retriever reads from.
type Store interface {
	Get(ctx context.Context, id string) (*versionstore.Version, error)
	Query(ctx context.Context, p versionstore.Predicate) ([]versionstore.Version, error)
}

// Criteria selects a version. Fields are consulted in a fixed order; the first
// populated rule decides the lookup.
type Criteria struct {
	VersionID   string
	Final       bool
	OriginalURL string
	Latest      bool
	Stage       string
}

// ErrLineageCycle reports a source_version chain that revisits a version.
var ErrLineageCycle = errors.New("lineage cycle detected")

// Retriever normalizes lookups over a Store.
type Retriever struct {
	store Store
}

// New constructs a Retriever.
func New(store Store) *Retriever {
	return &Retriever{store: store}
}

// Retrieve resolves c to exactly one version or versionstore.ErrNotFound.
//
// Resolution order: version id, newest final, newest for URL (with or without
// Latest), newest for stage.
func (r *Retriever) Retrieve(ctx context.Context, c Criteria) (*versionstore.Version, error) {
	id := strings.TrimSpace(c.VersionID)
	url := strings.TrimSpace(c.OriginalURL)
	stage := strings.TrimSpace(c.Stage)

	switch {
	case id != "":
		return r.store.Get(ctx, id)
	case c.Final:
		return r.newest(ctx, versionstore.Predicate{versionstore.KeyStage: versionstore.StageFinal.String()})
	case url != "":
		// Latest and plain URL lookups share the newest-first tie-break.
		return r.newest(ctx, versionstore.Predicate{versionstore.KeyOriginalURL: url})
	case stage != "":
		return r.newest(ctx, versionstore.Predicate{versionstore.KeyStage: stage})
	default:
		return nil, fmt.Errorf("retrieve: no criteria: %w", versionstore.ErrNotFound)
	}
}

func (r *Retriever) newest(ctx context.Context, p versionstore.Predicate) (*versionstore.Version, error) {
	versions, err := r.store.Query(ctx, p)
	if err != nil {
		return nil, err
	}
	latest, ok := versionstore.Newest(versions)
	if !ok {
		return nil, fmt.Errorf("retrieve %v: %w", map[string]string(p), versionstore.ErrNotFound)
	}
	return &latest, nil
}

// LatestVersion returns the newest version recorded for url across all tips.
func (r *Retriever) LatestVersion(ctx context.Context, url string) (*versionstore.Version, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("latest version: empty url: %w", versionstore.ErrNotFound)
	}
	return r.Retrieve(ctx, Criteria{OriginalURL: url, Latest: true})
}

// FinalVersions returns every final version, newest first.
func (r *Retriever) FinalVersions(ctx context.Context) ([]versionstore.Version, error) {
	return r.sorted(ctx, versionstore.Predicate{versionstore.KeyStage: versionstore.StageFinal.String()})
}

// VersionsByURL returns every version for url, newest first.
func (r *Retriever) VersionsByURL(ctx context.Context, url string) ([]versionstore.Version, error) {
	return r.sorted(ctx, versionstore.Predicate{versionstore.KeyOriginalURL: url})
}

// History returns versions for url, or every version when url is empty, newest first.
func (r *Retriever) History(ctx context.Context, url string) ([]versionstore.Version, error) {
	if strings.TrimSpace(url) == "" {
		return r.sorted(ctx, nil)
	}
	return r.VersionsByURL(ctx, url)
}

func (r *Retriever) sorted(ctx context.Context, p versionstore.Predicate) ([]versionstore.Version, error) {
	versions, err := r.store.Query(ctx, p)
	if err != nil {
		return nil, err
	}
	versionstore.SortNewestFirst(versions)
	return versions, nil
}
