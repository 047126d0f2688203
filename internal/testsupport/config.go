package testsupport

import (
	"path/filepath"
	"testing"

	"scribe/internal/config"
)

// ConfigOption adjusts the configuration returned by NewConfig.
type ConfigOption func(*config.Config)

// NewConfig returns defaults rooted in a fresh temp directory, with an API
// key set, a no-op editor and diff display off, so commands run unattended.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.LLM.APIKey = "test"
	cfg.Editor.Command = "true"
	cfg.Workflow.ShowDiffs = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithLLMEndpoint sends model traffic to baseURL with retries disabled.
func WithLLMEndpoint(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.BaseURL = baseURL
		cfg.LLM.RetryAttempts = 1
	}
}

// WithLLMKey replaces the placeholder API key.
func WithLLMKey(key string) ConfigOption {
	return func(cfg *config.Config) { cfg.LLM.APIKey = key }
}
