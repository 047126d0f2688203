// Package services defines shared utilities consumed by the workflow and its
// external collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp version IDs, stages, source URLs, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (acquisition, transform, store, validation) so the CLI and workflow can
//     report them consistently.
//
// Use these helpers when wiring new collaborators so error handling and
// observability stay uniform across the pipeline.
package services
