package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/preflight"
	"scribe/internal/versionstore"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories, database, editor, and LLM access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var results []preflight.Result
			storeErr := ctx.withStore(func(store *versionstore.Store) error {
				results = preflight.RunAll(cmd.Context(), cfg, store)
				return nil
			})
			if storeErr != nil {
				results = preflight.RunAll(cmd.Context(), cfg, nil)
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "OK"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{leftCol("Check"), leftCol("Status"), leftCol("Detail").wrapAt(70)}, rows))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
			}
			return nil
		},
	}
}
