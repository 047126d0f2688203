package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/fileutil"
	"scribe/internal/retrieval"
	"scribe/internal/versionstore"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var url string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored versions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRetriever(func(_ *versionstore.Store, r *retrieval.Retriever) error {
				versions, err := r.History(cmd.Context(), url)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, toVersionViews(versions, false))
				}
				renderVersionTable(cmd.OutOrStdout(), versions)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Only list versions for this URL")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var full, asJSON bool

	cmd := &cobra.Command{
		Use:   "show <version-id>",
		Short: "Show a stored version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRetriever(func(_ *versionstore.Store, r *retrieval.Retriever) error {
				v, err := r.Retrieve(cmd.Context(), retrieval.Criteria{VersionID: args[0]})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, toVersionView(*v, true))
				}
				printVersion(cmd.OutOrStdout(), *v, ctx.configValue().Workflow.PreviewChars, full)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print the full content instead of a preview")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newFinalsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "finals",
		Short: "List finalized versions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRetriever(func(_ *versionstore.Store, r *retrieval.Retriever) error {
				versions, err := r.FinalVersions(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, toVersionViews(versions, false))
				}
				renderVersionTable(cmd.OutOrStdout(), versions)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newLineageCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lineage <version-id>",
		Short: "Trace a version back to its raw root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRetriever(func(_ *versionstore.Store, r *retrieval.Retriever) error {
				chain, err := r.Lineage(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				renderVersionTable(cmd.OutOrStdout(), chain)
				return nil
			})
		},
	}
}

func newTipsCommand(ctx *commandContext) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "tips",
		Short: "List the versions of a URL that nothing was derived from yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(url) == "" {
				return errors.New("--url is required")
			}
			return ctx.withRetriever(func(_ *versionstore.Store, r *retrieval.Retriever) error {
				tips, err := r.Tips(cmd.Context(), url)
				if err != nil {
					return err
				}
				renderVersionTable(cmd.OutOrStdout(), tips)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Chapter URL")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count stored versions per stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *versionstore.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(stats) == 0 {
					fmt.Fprintln(out, "No versions stored.")
					return nil
				}
				order := make([]string, 0, len(stats))
				for _, s := range versionstore.PipelineStages() {
					order = append(order, s.String())
				}
				labels := make([]string, 0, len(stats))
				for label := range stats {
					labels = append(labels, label)
				}
				slices.SortFunc(labels, func(a, b string) int {
					ia, ib := slices.Index(order, a), slices.Index(order, b)
					if ia < 0 {
						ia = len(order)
					}
					if ib < 0 {
						ib = len(order)
					}
					if ia != ib {
						return ia - ib
					}
					return strings.Compare(a, b)
				})
				rows := make([][]string, 0, len(labels))
				total := 0
				for _, label := range labels {
					total += stats[label]
					rows = append(rows, []string{label, strconv.Itoa(stats[label])})
				}
				fmt.Fprintln(out, renderTable([]column{leftCol("Stage"), rightCol("Versions")}, rows, "total", strconv.Itoa(total)))
				return nil
			})
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <version-id>",
		Short: "Write a version's content to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(outPath) == "" {
				return errors.New("--out is required")
			}
			target, err := config.ExpandPath(outPath)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *versionstore.Store) error {
				v, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := fileutil.WriteFileAtomic(target, []byte(v.Content), 0o644); err != nil {
					return fmt.Errorf("export version: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s) to %s\n", v.ID, v.StageLabel(), target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file")
	return cmd
}
