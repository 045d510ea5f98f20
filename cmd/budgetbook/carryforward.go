package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/buckets"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/carryforward"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/classify"
	"github.com/xuri/excelize/v2"
)

func carryForwardCmd() *cobra.Command {
	var output string
	var skipBuckets bool
	cmd := &cobra.Command{
		Use:   "carry-forward",
		Short: "Close last month and open this month in the summary workbook",
		Long: `Freeze last month's row of the balance sheet to values, bold this month's row,
point the budget formulas at this month's sheet of the master workbook, and
append new debit transactions to the bucket ledger.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCarryForward(cmd.OutOrStdout(), output, !skipBuckets)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "save to this path instead of the summary file")
	cmd.Flags().BoolVar(&skipBuckets, "skip-buckets", false, "leave the bucket ledger untouched")
	return cmd
}

func bucketsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "Append new debit transactions to the bucket ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuckets(cmd.OutOrStdout(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "save to this path instead of the summary file")
	return cmd
}

func newBucketUpdater() *buckets.Updater {
	return buckets.New(buckets.Options{
		Sheet:       cfg.Buckets.Sheet,
		Categorizer: classify.Categorizer{Rules: cfg.Buckets.Rules},
		Logger:      slog.Default(),
	})
}

func runCarryForward(out io.Writer, output string, withBuckets bool) error {
	engine, err := carryforward.Open(cfg.Paths.SummaryFile, carryforward.Options{
		BalanceSheet:     cfg.CarryForward.BalanceSheet,
		BudgetSheet:      cfg.CarryForward.BudgetSheet,
		ExternalWorkbook: cfg.ExternalWorkbook(),
		AsOf:             time.Now(),
		Logger:           slog.Default(),
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	report := engine.Run()
	printSummary(out, "Carry forward", report.Summary)
	fmt.Fprintf(out, "  %d frozen, %d unbolded, %d bolded, %d references rewritten\n",
		report.Frozen, report.Unbolded, report.Bolded, report.Rewritten)

	if withBuckets {
		result, err := newBucketUpdater().Update(engine.File(), debitPath())
		if err != nil {
			return err
		}
		printSummary(out, "Bucket ledger", result.Summary)
		fmt.Fprintf(out, "  %d rows added\n", result.Added)
	}

	if err := engine.Save(savePath(output)); err != nil {
		return err
	}
	return failures(report.Summary)
}

func runBuckets(out io.Writer, output string) error {
	f, err := excelize.OpenFile(cfg.Paths.SummaryFile)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.Paths.SummaryFile, err)
	}
	defer f.Close()

	result, err := newBucketUpdater().Update(f, debitPath())
	if err != nil {
		return err
	}
	printSummary(out, "Bucket ledger", result.Summary)
	fmt.Fprintf(out, "  %d rows added\n", result.Added)
	if result.Added == 0 {
		return nil
	}

	path := savePath(output)
	if err := budgetbook.SaveFile(f, path); err != nil {
		return err
	}
	slog.Info("Saved summary workbook", "file", path)
	return nil
}

func savePath(output string) string {
	if output != "" {
		return output
	}
	return cfg.Paths.SummaryFile
}
