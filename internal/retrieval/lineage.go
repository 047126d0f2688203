package retrieval

import (
	"context"
	"fmt"

	"scribe/internal/versionstore"
)

// maxLineageDepth bounds lineage walks independently of the data.
const maxLineageDepth = 10_000

// Lineage follows source_version pointers from id back to its root. The
// result starts at id and ends at the root.
func (r *Retriever) Lineage(ctx context.Context, id string) ([]versionstore.Version, error) {
	var chain []versionstore.Version
	seen := make(map[string]struct{})
	current := id
	for current != "" {
		if _, dup := seen[current]; dup {
			return chain, fmt.Errorf("lineage of %s revisits %s: %w", id, current, ErrLineageCycle)
		}
		if len(chain) >= maxLineageDepth {
			return chain, fmt.Errorf("lineage of %s exceeds %d versions: %w", id, maxLineageDepth, ErrLineageCycle)
		}
		seen[current] = struct{}{}

		version, err := r.store.Get(ctx, current)
		if err != nil {
			return chain, fmt.Errorf("lineage of %s: %w", id, err)
		}
		chain = append(chain, *version)
		current = version.SourceVersion()
	}
	return chain, nil
}

// Tips returns the versions for url that no other version names as its
// source, newest first.
func (r *Retriever) Tips(ctx context.Context, url string) ([]versionstore.Version, error) {
	versions, err := r.store.Query(ctx, versionstore.Predicate{versionstore.KeyOriginalURL: url})
	if err != nil {
		return nil, err
	}
	parents := make(map[string]struct{}, len(versions))
	for _, v := range versions {
		if src := v.SourceVersion(); src != "" {
			parents[src] = struct{}{}
		}
	}
	tips := make([]versionstore.Version, 0, len(versions))
	for _, v := range versions {
		if _, isParent := parents[v.ID]; !isParent {
			tips = append(tips, v)
		}
	}
	versionstore.SortNewestFirst(tips)
	return tips, nil
}
