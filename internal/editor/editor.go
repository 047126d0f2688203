package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scribe/internal/fileutil"
	"scribe/internal/services"
	"scribe/internal/textutil"
)

// ErrNoEditor indicates no editor command is configured.
var ErrNoEditor = errors.New("editor: no editor command configured")

var passBanners = map[string]string{
	"human_writer_reviewed": "Human Writer Review: the AI-reviewed content will be opened for your modifications.",
	"human_reviewed":        "Human Reviewer Stage: the content will be opened again for review.",
	"final":                 "Final Editor Stage: make any final edits before marking as complete.",
}

// Editor runs an external editor command.
type Editor struct {
	command []string
	tempDir string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// Option customizes an Editor.
type Option func(*Editor)

// WithStreams overrides the terminal streams handed to the editor process.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(e *Editor) {
		if stdin != nil {
			e.stdin = stdin
		}
		if stdout != nil {
			e.stdout = stdout
		}
		if stderr != nil {
			e.stderr = stderr
		}
	}
}

// WithTempDir sets where edit buffers are created.
func WithTempDir(dir string) Option {
	return func(e *Editor) {
		e.tempDir = dir
	}
}

// New builds an Editor for command, which may carry arguments ("code --wait").
func New(command string, opts ...Option) (*Editor, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, ErrNoEditor
	}
	e := &Editor{
		command: fields,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Edit opens text in the editor. changed is false when the buffer comes back
// identical (ignoring a trailing newline) or empty.
func (e *Editor) Edit(ctx context.Context, text string) (string, bool, error) {
	dir, err := os.MkdirTemp(e.tempDir, "scribe-edit-")
	if err != nil {
		return "", false, fmt.Errorf("editor: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, bufferName(ctx))
	if err := fileutil.WriteFileAtomic(path, []byte(text), 0o600); err != nil {
		return "", false, fmt.Errorf("editor: write buffer: %w", err)
	}

	stage, _ := services.StageFromContext(ctx)
	if banner, ok := passBanners[stage]; ok {
		fmt.Fprintf(e.stdout, "\n%s\n", banner)
	}

	args := append(append([]string{}, e.command[1:]...), path)
	cmd := exec.CommandContext(ctx, e.command[0], args...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		return "", false, fmt.Errorf("editor: run %s: %w", e.command[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("editor: read buffer: %w", err)
	}
	edited := string(data)
	if strings.TrimSpace(edited) == "" || trimNewline(edited) == trimNewline(text) {
		return text, false, nil
	}
	return edited, true, nil
}

func trimNewline(s string) string {
	return strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func bufferName(ctx context.Context) string {
	stage, _ := services.StageFromContext(ctx)
	name := textutil.SanitizeToken(stage)
	if id, ok := services.VersionIDFromContext(ctx); ok {
		if len(id) > 8 {
			id = id[:8]
		}
		name += "-" + textutil.SanitizeToken(id)
	}
	return name + ".txt"
}
