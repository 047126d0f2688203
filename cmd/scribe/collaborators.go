package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"scribe/internal/acquire"
	"scribe/internal/diffview"
	"scribe/internal/editor"
	"scribe/internal/logging"
	"scribe/internal/notifications"
	"scribe/internal/transform"
	"scribe/internal/versionstore"
	"scribe/internal/workflow"
)

// newManager wires the workflow manager to real collaborators bound to the
// command's streams. The transformer is left out when no LLM key is
// configured; runs that need it then fail with a configuration error.
func (c *commandContext) newManager(cmd *cobra.Command, store *versionstore.Store) (*workflow.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.loggerValue()

	acq, err := acquire.New(acquire.ConfigFrom(cfg))
	if err != nil {
		return nil, err
	}
	ed, err := editor.New(cfg.Editor.Command,
		editor.WithStreams(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)
	if err != nil {
		return nil, err
	}
	if !isTerminal(cmd.InOrStdin()) {
		logging.WarnWithContext(logger, "stdin is not a terminal", "non_interactive",
			logging.String("editor", cfg.Editor.Command),
			logging.String(logging.FieldErrorHint, "run scribe from an interactive shell to edit passes"),
			logging.String(logging.FieldImpact, "editor passes may return unchanged"),
		)
	}

	collab := workflow.Collaborators{
		Acquirer: acq,
		Editor:   ed,
		Diffs:    diffview.Discard{},
		Notifier: notifications.NewService(cfg),
	}
	if cfg.Workflow.ShowDiffs {
		collab.Diffs = diffview.New(cmd.OutOrStdout(), cfg.Workflow.DiffContextLines)
	}
	if cfg.RequireLLM() == nil {
		tr, err := transform.NewFromConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		collab.Transformer = tr
	}
	return workflow.NewManager(store, collab, logger), nil
}

func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func shouldColorize(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isTerminal(w)
}
