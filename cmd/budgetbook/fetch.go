package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/export"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/pocketsmith"
)

const dateFlagLayout = "2006-01-02"

func fetchCmd() *cobra.Command {
	var startFlag, endFlag string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Write the credit card transactions since --start into a weekly workbook",
		Long: `Fetch credit card transactions from PocketSmith, label them by bank category,
and save them as a weekly period file in the transaction directory. Without
--start the date of the last successful fetch is used.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := fetchRange(startFlag, endFlag)
			if err != nil {
				return err
			}
			path, err := runFetch(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&startFlag, "start", "", "first transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "last transaction date (YYYY-MM-DD, default: today)")
	return cmd
}

func debitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debit",
		Short: "Export the debit account transactions for the bucket ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := runDebit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
}

func fetchRange(startFlag, endFlag string) (time.Time, time.Time, error) {
	end := today()
	if endFlag != "" {
		t, err := time.Parse(dateFlagLayout, endFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
		}
		end = t
	}

	lastRun, ok, err := export.ReadLastRun(cfg.Paths.TransactionDir)
	if err != nil {
		slog.Warn("Could not read last run date", "dir", cfg.Paths.TransactionDir, "error", err)
	}
	if ok {
		slog.Info("Last fetch", "date", lastRun.Format(dateFlagLayout))
	}

	if startFlag != "" {
		start, err := time.Parse(dateFlagLayout, startFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
		}
		return start, end, nil
	}
	if !ok {
		return time.Time{}, time.Time{}, errors.New("no --start given and no last run recorded")
	}
	return lastRun, end, nil
}

func newPocketSmith() (*pocketsmith.Client, error) {
	if cfg.PocketSmith.APIKey == "" {
		return nil, errors.New("no PocketSmith API key: set pocketsmith.api_key or POCKETSMITH_API_KEY")
	}
	return pocketsmith.NewClient(cfg.PocketSmith.APIKey,
		pocketsmith.WithBaseURL(cfg.PocketSmith.BaseURL),
		pocketsmith.WithPageTimeout(cfg.PocketSmith.PageTimeout),
		pocketsmith.WithLogger(slog.Default()),
	), nil
}

func runFetch(ctx context.Context, start, end time.Time) (string, error) {
	client, err := newPocketSmith()
	if err != nil {
		return "", err
	}
	days := int(end.Sub(start).Hours()/24) + 1
	slog.Info("Fetching credit card transactions",
		"start", start.Format(dateFlagLayout), "end", end.Format(dateFlagLayout), "days", days)

	txs := client.Transactions(ctx, cfg.PocketSmith.CreditAccountID, start, end)
	cfg.Labeler().Apply(txs)

	f, err := export.WeeklyWorkbook(txs, export.WeeklyOptions{
		Week:         export.WeekOfMonth(end),
		Participants: cfg.Labels.Participants,
		Shared:       cfg.Labels.Shared,
		Palette:      cfg.Palette(),
	})
	if err != nil {
		return "", fmt.Errorf("build weekly workbook: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(cfg.Paths.TransactionDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(cfg.Paths.TransactionDir, export.WeeklyFileName(start, end))
	if err := budgetbook.SaveFile(f, path); err != nil {
		return "", err
	}
	slog.Info("Saved weekly workbook", "file", path, "transactions", len(txs))

	if err := export.WriteLastRun(cfg.Paths.TransactionDir, today()); err != nil {
		slog.Warn("Could not record last run date", "error", err)
	}
	return path, nil
}

func runDebit(ctx context.Context) (string, error) {
	client, err := newPocketSmith()
	if err != nil {
		return "", err
	}
	txs := client.Transactions(ctx, cfg.PocketSmith.DebitAccountID, time.Time{}, time.Time{})
	if len(txs) == 0 {
		return "", errors.New("no debit transactions fetched")
	}

	f, err := export.DebitWorkbook(txs, cfg.OwnerColor())
	if err != nil {
		return "", fmt.Errorf("build debit workbook: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(cfg.Paths.TransactionDir, 0o755); err != nil {
		return "", err
	}
	path := debitPath()
	if err := budgetbook.SaveFile(f, path); err != nil {
		return "", err
	}
	slog.Info("Saved debit export", "file", path, "transactions", len(txs))
	return path, nil
}

func debitPath() string {
	return filepath.Join(cfg.Paths.TransactionDir, export.DebitFileName(cfg.Year))
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
