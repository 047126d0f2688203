// Package preflight provides readiness checks for the services and paths
// scribe depends on.
//
// The CLI "scribe check" command runs RunAll and renders the results; the
// ingest and resume commands call CheckLLM before starting so a missing or
// rejected API key is reported before any content is fetched.
package preflight
