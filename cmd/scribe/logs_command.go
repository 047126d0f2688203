package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/logging"
	"scribe/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		follow bool
		lines  int
		filter logs.Filter
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display the run log",
		Long: `Display recent entries from scribe's log file.

Use --run with a correlation id printed by ingest or resume to see a single
run, or --version to see every entry that touched one version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)

			opts := logs.TailOptions{Offset: -1, Limit: lines, Filter: filter}
			if lines <= 0 {
				opts = logs.TailOptions{Offset: 0, Filter: filter}
			}
			printed := false
			for {
				result, err := logs.Tail(cmd.Context(), path, opts)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return fmt.Errorf("tail logs: %w", err)
				}
				for _, line := range result.Lines {
					fmt.Fprintln(cmd.OutOrStdout(), line)
					printed = true
				}
				if !follow {
					if !printed {
						fmt.Fprintln(cmd.OutOrStdout(), "No log entries available")
					}
					return nil
				}
				opts = logs.TailOptions{Offset: result.Offset, Follow: true, Wait: time.Second, Filter: filter}
				if cmd.Context().Err() != nil {
					return nil
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of lines to show (0 for all)")
	cmd.Flags().StringVar(&filter.CorrelationID, "run", "", "Only show entries for this run correlation id")
	cmd.Flags().StringVar(&filter.VersionID, "version", "", "Only show entries for this version id")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "Minimum level to show (debug, info, warn, error)")
	return cmd
}
