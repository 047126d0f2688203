// Package retrieval resolves heterogeneous lookup criteria (id, final, URL,
// latest, stage) to a single stored version, and offers the history helpers
// used when resuming or browsing: all finals, all versions for a URL, lineage
// walks, and tip discovery.
//
// Every "pick one of many" path goes through versionstore.Newest so the
// ordering rule lives in one place.
package retrieval
