// Package logging assembles structured slog loggers and formatting helpers used
// across scribe.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so workflow code can tag log
// lines with version IDs, stages, source URLs, and correlation IDs. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Interactive sessions share the terminal with editor and menu prompts, so
// NewFromConfig sends the full stream to the log file and only warnings and
// errors to stderr.
package logging
