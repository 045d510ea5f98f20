package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func allCmd() *cobra.Command {
	var startFlag string
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Fetch, collate, export debits, and carry forward in sequence",
		Long: `Run every stage in order, stopping at the first stage that fails:
fetch the weekly workbook, rebuild the master, export the debit account, and
carry the summary workbook forward.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			start, end, err := fetchRange(startFlag, "")
			if err != nil {
				return err
			}

			path, err := runFetch(cmd.Context(), start, end)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}
			fmt.Fprintf(out, "Saved %s\n", path)

			if err := runCollate(cmd.Context(), out); err != nil {
				return fmt.Errorf("collate: %w", err)
			}

			withBuckets := true
			if path, err := runDebit(cmd.Context()); err != nil {
				slog.Warn("Debit export failed, skipping bucket ledger", "error", err)
				withBuckets = false
			} else {
				fmt.Fprintf(out, "Saved %s\n", path)
			}

			if err := runCarryForward(out, "", withBuckets); err != nil {
				return fmt.Errorf("carry forward: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&startFlag, "start", "", "first transaction date (YYYY-MM-DD)")
	return cmd
}
