package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"scribe/internal/config"
	"scribe/internal/services/llm"
)

// llmProbeTimeout bounds a single health probe; probes never retry.
const llmProbeTimeout = 30 * time.Second

func pass(name, detail string) Result { return Result{Name: name, Passed: true, Detail: detail} }

func fail(name, format string, args ...any) Result {
	return Result{Name: name, Detail: fmt.Sprintf(format, args...)}
}

// CheckLLM sends one tiny JSON completion to the configured model.
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return fail(name, "API key missing")
	}

	probeCtx, cancel := context.WithTimeout(ctx, llmProbeTimeout)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Referer: cfg.Referer,
		Title:   cfg.Title,
	}, llm.WithRetryMaxAttempts(1))

	err := client.HealthCheck(probeCtx)
	switch {
	case err == nil:
		return pass(name, fmt.Sprintf("API reachable (%s)", cfg.Model))
	case errors.Is(err, context.DeadlineExceeded):
		return fail(name, "no reply within %s", llmProbeTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fail(name, "%s unreachable (timeout)", cfg.BaseURL)
	}
	return fail(name, "%v", err)
}

// CheckDirectoryAccess requires path to be a directory the process can
// list and write into.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fail(name, "%s does not exist", path)
	case err != nil:
		return fail(name, "%s: %v", path, err)
	case !info.IsDir():
		return fail(name, "%s is not a directory", path)
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail(name, "%s is not writable: %v", path, err)
	}
	return pass(name, path)
}

// CheckEditor resolves the first word of the editor command on PATH.
func CheckEditor(command string) Result {
	const name = "Editor"
	program, _, _ := strings.Cut(strings.TrimSpace(command), " ")
	if program == "" {
		return fail(name, "no editor configured (set editor.command or $EDITOR)")
	}
	resolved, err := exec.LookPath(program)
	if err != nil {
		return fail(name, "%s not found on PATH", program)
	}
	return pass(name, resolved)
}

// CheckDatabase reports the version database schema and integrity.
func CheckDatabase(ctx context.Context, store HealthChecker) Result {
	const name = "Version database"
	if store == nil {
		return fail(name, "not opened")
	}
	health, err := store.CheckHealth(ctx)
	switch {
	case err != nil:
		return fail(name, "%v", err)
	case !health.DatabaseExists:
		return fail(name, "%s is missing", health.DBPath)
	case health.Error != "":
		return fail(name, "%s", health.Error)
	case !health.IntegrityCheck:
		return fail(name, "integrity check failed")
	}
	return pass(name, fmt.Sprintf("schema v%d, %d versions", health.SchemaVersion, health.TotalVersions))
}
