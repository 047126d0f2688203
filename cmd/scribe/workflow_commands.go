package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/services"
	"scribe/internal/services/llm"
	"scribe/internal/versionstore"
	"scribe/internal/workflow"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var url, label string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch a chapter and run it through the full revision pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(url) == "" {
				return errors.New("--url is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireLLM(); err != nil {
				return err
			}
			return ctx.withSession(func(store *versionstore.Store) error {
				mgr, err := ctx.newManager(cmd, store)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Fetching %s...\n", url)
				result, err := mgr.Ingest(cmd.Context(), url, label)
				printResult(cmd.OutOrStdout(), result, err)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Chapter URL to fetch")
	cmd.Flags().StringVar(&label, "label", "", "Chapter label (defaults to the page title)")
	return cmd
}

func newResumeCommand(ctx *commandContext) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Continue the pipeline from the latest stored version of a URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(url) == "" {
				return errors.New("--url is required")
			}
			return ctx.withSession(func(store *versionstore.Store) error {
				mgr, err := ctx.newManager(cmd, store)
				if err != nil {
					return err
				}
				result, err := mgr.Resume(cmd.Context(), url)
				printResult(cmd.OutOrStdout(), result, err)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Chapter URL to resume")
	return cmd
}

func newBranchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "branch <version-id>",
		Short: "Edit a stored version and save the result as a new branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(store *versionstore.Store) error {
				mgr, err := ctx.newManager(cmd, store)
				if err != nil {
					return err
				}
				result, err := mgr.Branch(cmd.Context(), args[0])
				printResult(cmd.OutOrStdout(), result, err)
				return err
			})
		},
	}
}

// printResult reports what a run wrote. Errors are returned to cobra by the
// caller; this only adds the human context around them.
func printResult(out io.Writer, result workflow.Result, err error) {
	if result.Start.ID != "" && (len(result.Written) == 0 || result.Written[0].ID != result.Start.ID) {
		printStart(out, result.Start)
	}
	for _, v := range result.Written {
		fmt.Fprintf(out, "%s saved as version ID: %s\n", stageDescription(v.StageLabel()), v.ID)
	}
	switch {
	case err != nil:
		printFailure(out, result, err)
	case result.Outcome == workflow.OutcomeAlreadyFinal:
		fmt.Fprintln(out, "This content has already been finalized.")
	case result.Outcome == workflow.OutcomeBranchTip:
		fmt.Fprintln(out, "Latest version is a manual branch; nothing to resume. Use `scribe branch` to keep editing it.")
	case result.Outcome == workflow.OutcomeUnchanged:
		fmt.Fprintln(out, "No changes made; nothing stored.")
	case result.Outcome == workflow.OutcomeCompleted:
		fmt.Fprintf(out, "Done. Latest version ID: %s\n", result.LastID)
	}
	if result.CorrelationID != "" {
		fmt.Fprintf(out, "Run ID: %s\n", result.CorrelationID)
	}
}

func printStart(out io.Writer, v versionstore.Version) {
	fmt.Fprintf(out, "Starting from version: %s\n", v.ID)
	fmt.Fprintf(out, "  Stage:        %s\n", v.StageLabel())
	fmt.Fprintf(out, "  Processed by: %s\n", valueOr(v.ProcessedBy(), "unknown"))
	fmt.Fprintf(out, "  Timestamp:    %s\n", valueOr(v.Timestamp(), "unknown"))
}

func printFailure(out io.Writer, result workflow.Result, err error) {
	details := services.Details(err)
	switch {
	case errors.Is(err, services.ErrAcquisition):
		fmt.Fprintln(out, "Failed to scrape content.")
	case errors.Is(err, services.ErrTransform) && details.Operation == "rewrite":
		fmt.Fprintln(out, "AI rewriting failed.")
	case errors.Is(err, services.ErrTransform) && details.Operation == "review":
		fmt.Fprintln(out, "AI review failed.")
	case errors.Is(err, services.ErrNotFound):
		fmt.Fprintln(out, "No versions found.")
	case errors.Is(err, services.ErrConfiguration) && result.Step == workflow.StepRewrite:
		fmt.Fprintln(out, "This version needs the AI passes; set llm.api_key or SCRIBE_LLM_API_KEY and resume.")
	}
	if errors.Is(err, llm.ErrTruncated) {
		fmt.Fprintln(out, "The model reply was cut off at its token limit; raise llm.max_tokens and resume.")
	}
	if result.LastID != "" && result.Outcome == workflow.OutcomeHalted {
		fmt.Fprintf(out, "Pipeline halted; resume from version %s with `scribe resume --url %s`.\n",
			result.LastID, result.Start.OriginalURL())
	}
}

func stageDescription(stage string) string {
	switch stage {
	case "raw":
		return "Scraped content"
	case "AI_spun":
		return "AI-rewritten content"
	case "AI_reviewed":
		return "AI-reviewed content"
	case "human_writer_reviewed":
		return "Human Writer version"
	case "human_reviewed":
		return "Human Reviewer version"
	case "final":
		return "Final version"
	default:
		return "Edited version"
	}
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
