package versionstore

import (
	"strings"
	"time"
)

// Metadata keys written by the workflow.
const (
	KeyOriginalURL   = "original_url"
	KeyChapterTitle  = "chapter_title"
	KeyStage         = "stage"
	KeyProcessedBy   = "processed_by"
	KeySourceVersion = "source_version"
	KeyTimestamp     = "timestamp"
)

// TimestampLayout is fixed width so lexicographic order equals chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Version is an immutable content snapshot.
type Version struct {
	ID       string
	Content  string
	Metadata map[string]string
	// Seq is the insertion sequence assigned by the database.
	Seq int64
}

// Predicate is a conjunctive equality filter over metadata keys.
type Predicate map[string]string

func (v Version) meta(key string) string {
	if v.Metadata == nil {
		return ""
	}
	return strings.TrimSpace(v.Metadata[key])
}

// OriginalURL returns the page the lineage was acquired from.
func (v Version) OriginalURL() string { return v.meta(KeyOriginalURL) }

// ChapterTitle returns the chapter label, or "" when none was recorded.
func (v Version) ChapterTitle() string { return v.meta(KeyChapterTitle) }

// SourceVersion returns the parent version id; empty for a lineage root.
func (v Version) SourceVersion() string { return v.meta(KeySourceVersion) }

// Timestamp returns the stored creation time as written.
func (v Version) Timestamp() string { return v.meta(KeyTimestamp) }

// StageLabel returns the raw stage label; see Stage for the parsed form.
func (v Version) StageLabel() string { return v.meta(KeyStage) }

// ProcessedBy returns the actor that produced the version.
func (v Version) ProcessedBy() string { return v.meta(KeyProcessedBy) }

// Stage parses the stored stage label.
func (v Version) Stage() (Stage, error) {
	return ParseStage(v.StageLabel())
}

// Time parses the stored timestamp.
func (v Version) Time() (time.Time, bool) {
	raw := v.Timestamp()
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsRoot reports whether the version starts a lineage.
func (v Version) IsRoot() bool {
	return v.SourceVersion() == ""
}

// CloneMetadata returns a copy of the metadata map safe for mutation.
func (v Version) CloneMetadata() map[string]string {
	out := make(map[string]string, len(v.Metadata))
	for key, value := range v.Metadata {
		out[key] = value
	}
	return out
}

// DatabaseHealth captures diagnostic information about the version database.
type DatabaseHealth struct {
	DBPath         string
	DatabaseExists bool
	SchemaVersion  int
	IntegrityCheck bool
	TotalVersions  int
	Error          string
}
