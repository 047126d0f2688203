package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/testsupport"
)

const chapterPage = `<html><head><title>Chapter 1</title></head>
<body><div id="mw-content-text"><p>The original chapter text.</p></div></body></html>`

type cliTestEnv struct {
	configPath string
	dataDir    string
	pageURL    string
	llmCalls   *int
}

// setupCLITestEnv writes a config pointing at stub chapter and LLM servers.
// editorBody is the shell script used as the editor; "$1" is the buffer.
func setupCLITestEnv(t *testing.T, editorBody string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("SCRIBE_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(chapterPage))
	}))
	t.Cleanup(pages.Close)

	calls := 0
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req struct {
			ResponseFormat map[string]string `json:"response_format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		content := "R1"
		if req.ResponseFormat["type"] == "json_object" {
			content = `{"revised_text":"R2","comments":["tightened prose"],"ok":true}`
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{
				"finish_reason": "stop",
				"message":       map[string]any{"content": content},
			}},
		})
	}))
	t.Cleanup(llm.Close)

	editorPath := testsupport.WriteScript(t, filepath.Join(base, "bin"), "editor", editorBody)
	dataDir := filepath.Join(base, "data")
	configPath := filepath.Join(base, "scribe.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[llm]
api_key = "test-key"
base_url = %q
retry_attempts = 1

[editor]
command = %q

[workflow]
show_diffs = false
`, dataDir, filepath.Join(base, "logs"), llm.URL, editorPath)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		configPath: configPath,
		dataDir:    dataDir,
		pageURL:    pages.URL + "/wiki/Book_1/Chapter_1",
		llmCalls:   &calls,
	}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

type historyEntry struct {
	ID       string            `json:"id"`
	Stage    string            `json:"stage"`
	Metadata map[string]string `json:"metadata"`
}

func historyJSON(t *testing.T, env *cliTestEnv, extra ...string) []historyEntry {
	t.Helper()
	out, _, err := runCLI(t, env, "", append([]string{"history", "--json"}, extra...)...)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var entries []historyEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	return entries
}
