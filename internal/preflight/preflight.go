package preflight

import (
	"context"

	"scribe/internal/config"
	"scribe/internal/versionstore"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// HealthChecker reports database diagnostics.
type HealthChecker interface {
	CheckHealth(ctx context.Context) (versionstore.DatabaseHealth, error)
}

// RunAll executes every preflight check for cfg. store may be nil when the
// database could not be opened.
func RunAll(ctx context.Context, cfg *config.Config, store HealthChecker) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDatabase(ctx, store),
		CheckEditor(cfg.Editor.Command),
		CheckLLM(ctx, "Writer LLM", cfg.WriterLLM()),
	}
	if reviewerUsesDistinctModel(cfg) {
		results = append(results, CheckLLM(ctx, "Reviewer LLM", cfg.ReviewerLLM()))
	}
	return results
}

// reviewerUsesDistinctModel reports whether the review pass talks to a
// different model than the writer; otherwise the writer check covers it.
func reviewerUsesDistinctModel(cfg *config.Config) bool {
	return cfg.WriterLLM().Model != cfg.ReviewerLLM().Model
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
