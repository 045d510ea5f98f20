package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/collate"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
)

func collateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collate",
		Short: "Rebuild the yearly master workbook from the weekly period files",
		Long: `Move the current master workbook to the backup directory, then append every
weekly period file of the year into one sheet per month of a fresh master.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCollate(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runCollate(ctx context.Context, out io.Writer) error {
	c := collate.New(collate.Options{
		TransactionDir: cfg.Paths.TransactionDir,
		MasterPath:     cfg.MasterPath(),
		BackupDir:      cfg.Paths.BackupDir,
		Year:           cfg.Year,
		AsOf:           time.Now(),
		Layout:         cfg.Layout(),
		Palette:        cfg.Palette(),
		Logger:         slog.Default(),
	})
	summary, err := c.Run(ctx)
	printSummary(out, "Collation", summary)
	if err != nil {
		return err
	}
	return failures(summary)
}

// printSummary writes outcome counts and every warning of a run.
func printSummary(out io.Writer, title string, summary *models.RunSummary) {
	if summary == nil {
		return
	}
	fmt.Fprintf(out, "%s: %d succeeded, %d skipped, %d failed\n", title,
		summary.Count(models.StatusSucceeded),
		summary.Count(models.StatusSkipped),
		summary.Count(models.StatusFailed))
	for _, o := range summary.Outcomes {
		if o.Status == models.StatusSucceeded {
			continue
		}
		fmt.Fprintf(out, "  %s %s: %s\n", o.Status, o.Unit, o.Reason)
	}
	for _, w := range summary.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
}

func failures(summary *models.RunSummary) error {
	if n := summary.Count(models.StatusFailed); n > 0 {
		return fmt.Errorf("%d of %d units failed", n, len(summary.Outcomes))
	}
	return nil
}
