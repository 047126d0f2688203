package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "scribe",
		Short:         "Versioned chapter rewriting with AI and human review passes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddGroup(
		&cobra.Group{ID: "workflow", Title: "Revision workflow:"},
		&cobra.Group{ID: "query", Title: "Browsing history:"},
		&cobra.Group{ID: "ops", Title: "Setup and diagnostics:"},
	)
	addGrouped(rootCmd, "workflow",
		newIngestCommand(ctx),
		newResumeCommand(ctx),
		newBranchCommand(ctx),
		newMenuCommand(ctx),
	)
	addGrouped(rootCmd, "query",
		newHistoryCommand(ctx),
		newShowCommand(ctx),
		newFinalsCommand(ctx),
		newLineageCommand(ctx),
		newTipsCommand(ctx),
		newStatsCommand(ctx),
		newExportCommand(ctx),
	)
	addGrouped(rootCmd, "ops",
		newCheckCommand(ctx),
		newLogsCommand(ctx),
		newTestNotifyCommand(ctx),
		newConfigCommand(ctx),
	)

	return rootCmd
}

func addGrouped(parent *cobra.Command, groupID string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = groupID
		parent.AddCommand(cmd)
	}
}
