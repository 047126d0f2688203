package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"scribe/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SCRIBE_LLM_API_KEY", "OPENROUTER_API_KEY", "VISUAL", "EDITOR"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCRIBE_LLM_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "scribe")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "versions.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Fatalf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != config.Default().LLM.BaseURL {
		t.Fatalf("unexpected LLM base url: %q", cfg.LLM.BaseURL)
	}
	if cfg.Editor.Command != "vi" {
		t.Fatalf("expected default editor vi, got %q", cfg.Editor.Command)
	}
	if !cfg.Workflow.ShowDiffs {
		t.Fatal("expected diffs enabled by default")
	}
	if cfg.Workflow.PreviewChars != 1000 {
		t.Fatalf("unexpected preview chars: %d", cfg.Workflow.PreviewChars)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "scribe.toml")
	content := `[paths]
data_dir = "~/chapters"
log_dir = "/tmp/scribe-logs"

[llm]
api_key = "file-key"
model = "writer-model"
review_model = "reviewer-model"

[editor]
command = "nano"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "chapters") {
		t.Fatalf("expected data dir under home, got %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.LogDir != "/tmp/scribe-logs" {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Editor.Command != "nano" {
		t.Fatalf("unexpected editor: %q", cfg.Editor.Command)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
	if got := cfg.WriterLLM().Model; got != "writer-model" {
		t.Fatalf("unexpected writer model: %q", got)
	}
	if got := cfg.ReviewerLLM().Model; got != "reviewer-model" {
		t.Fatalf("unexpected reviewer model: %q", got)
	}
	if cfg.RequireLLM() != nil {
		t.Fatalf("expected LLM settings to be complete: %v", cfg.RequireLLM())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	configPath := filepath.Join(t.TempDir(), "scribe.toml")
	content := "[workflow]\nshow_diff = false\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected misspelled key to be rejected")
	}
	if !strings.Contains(err.Error(), "show_diff") {
		t.Fatalf("expected error to name the key, got %v", err)
	}
}

func TestConfigFileKeyWinsOverEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SCRIBE_LLM_API_KEY", "env-key")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[llm]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Fatalf("expected file key, got %q", cfg.LLM.APIKey)
	}
}

func TestEditorFallsBackToEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EDITOR", "emacs -nw")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Editor.Command != "emacs -nw" {
		t.Fatalf("expected editor from env, got %q", cfg.Editor.Command)
	}

	t.Setenv("VISUAL", "code --wait")
	cfg, _, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Editor.Command != "code --wait" {
		t.Fatalf("expected VISUAL to win, got %q", cfg.Editor.Command)
	}
}

func TestRequireLLMWithoutKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	err = cfg.RequireLLM()
	if err == nil {
		t.Fatal("expected missing key error")
	}
	if !strings.Contains(err.Error(), "SCRIBE_LLM_API_KEY") {
		t.Fatalf("expected env var hint, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	text := string(data)
	for _, section := range []string{"[paths]", "[llm]", "[acquisition]", "[editor]", "[workflow]", "[logging]"} {
		if !strings.Contains(text, section) {
			t.Fatalf("sample config missing %s", section)
		}
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Workflow.DiffContextLines != 3 {
		t.Fatalf("unexpected sample diff context: %d", decoded.Workflow.DiffContextLines)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty data dir", func(c *config.Config) { c.Paths.DataDir = "" }, "paths.data_dir"},
		{"bad base url", func(c *config.Config) { c.LLM.BaseURL = "not a url" }, "llm.base_url"},
		{"zero retries", func(c *config.Config) { c.LLM.RetryAttempts = 0 }, "llm.retry_attempts"},
		{"zero fetch timeout", func(c *config.Config) { c.Acquisition.TimeoutSeconds = 0 }, "acquisition.timeout_seconds"},
		{"ntfy topic without scheme", func(c *config.Config) { c.Notifications.NtfyTopic = "ntfy.sh/scribe" }, "notifications.ntfy_topic"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}

func TestSamplePlaceholderKeyIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.LLM.APIKey != "" {
		t.Fatalf("placeholder key leaked into config: %q", cfg.LLM.APIKey)
	}
	if err := cfg.RequireLLM(); err == nil {
		t.Fatal("expected RequireLLM to fail with the sample placeholder")
	}
}
