// Package versionstore persists immutable chapter versions in SQLite.
//
// Every version is a self-contained content snapshot plus a flat metadata map
// (original_url, stage, processed_by, source_version, timestamp, ...). Rows are
// written once inside a single transaction and never updated or deleted; the
// schema installs triggers that reject UPDATE and DELETE so the guarantee holds
// even for ad-hoc SQL.
//
// The package also owns the closed Stage and Actor vocabularies and the single
// "newest first" ordering used by every caller that has to pick one version out
// of many. Schema changes bump schemaVersion in schema.go; mismatched databases
// fail to open with ErrSchemaMismatch.
package versionstore
