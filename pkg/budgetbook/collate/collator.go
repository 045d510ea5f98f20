// Package collate merges weekly transaction workbooks into one sheet per
// calendar month inside a yearly master workbook.
package collate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/sheet"
	"github.com/xuri/excelize/v2"
)

// Options configures a collation run.
type Options struct {
	// TransactionDir holds the weekly period files.
	TransactionDir string
	// MasterPath is where the yearly master workbook is written.
	MasterPath string
	// BackupDir receives the previous master before it is rebuilt.
	BackupDir string
	// Year filters period files by the year in their name.
	Year int
	// AsOf dates the backup file.
	AsOf time.Time
	// Layout bounds copied blocks and sets column widths.
	Layout budgetbook.Layout
	// Palette colors the label highlights in each month sheet.
	Palette models.LabelPalette
	// Logger receives progress and warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// monthSheet tracks what has been appended to one month sheet during a run.
type monthSheet struct {
	lastRow int
	// anchored is set once label highlighting has been copied in.
	anchored bool
	labels   map[string]bool
}

// Collator rebuilds the master workbook from the weekly period files.
type Collator struct {
	opts   Options
	logger *slog.Logger

	master   *excelize.File
	months   map[string]*monthSheet
	appended bool
}

// New creates a Collator.
func New(opts Options) *Collator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.AsOf.IsZero() {
		opts.AsOf = time.Now()
	}
	return &Collator{opts: opts, logger: logger}
}

// AppendRow returns the row a new block starts on when lastRow is the last
// populated row of the destination sheet. An empty sheet starts at row 1;
// otherwise one blank row separates the blocks.
func AppendRow(lastRow int) int {
	if lastRow <= 0 {
		return 1
	}
	return lastRow + 2
}

// Run backs up the existing master, rebuilds it from every period file of
// the configured year, and saves it. Per-file problems are recorded in the
// returned summary; only failures to create, back up, or save the master are
// returned as errors.
func (c *Collator) Run(ctx context.Context) (*models.RunSummary, error) {
	summary := &models.RunSummary{}

	created, err := EnsureMaster(c.opts.MasterPath)
	if err != nil {
		return summary, fmt.Errorf("ensure master workbook: %w", err)
	}
	if created {
		c.logger.Info("Created master workbook", "file", c.opts.MasterPath)
	}

	backupPath, err := Backup(c.opts.MasterPath, c.opts.BackupDir, c.opts.AsOf)
	if err != nil {
		return summary, fmt.Errorf("back up master workbook: %w", err)
	}
	if backupPath != "" {
		c.logger.Info("Moved master workbook to backup", "backup", backupPath)
	}

	c.master, err = newMaster()
	if err != nil {
		return summary, fmt.Errorf("create master workbook: %w", err)
	}
	defer c.master.Close()
	c.months = make(map[string]*monthSheet)
	c.appended = false

	files, skipped, err := Discover(c.opts.TransactionDir, c.opts.Year)
	if err != nil {
		c.logger.Error("Failed to list period files", "dir", c.opts.TransactionDir, "error", err)
		summary.Warn("list %s: %v", c.opts.TransactionDir, err)
	}
	for _, s := range skipped {
		c.logger.Info("Skipping file", "file", s.Unit, "reason", s.Reason)
		summary.Outcomes = append(summary.Outcomes, s)
	}

	for _, pf := range files {
		if err := ctx.Err(); err != nil {
			summary.Skip(pf.Name, "cancelled")
			continue
		}
		if err := c.collateFile(pf, summary); err != nil {
			c.logger.Error("Failed to collate file", "file", pf.Name, "error", err)
			summary.Fail(pf.Name, err)
			continue
		}
		summary.Succeed(pf.Name)
	}

	if err := c.dropPlaceholder(); err != nil {
		c.logger.Warn("Failed to remove placeholder sheet", "error", err)
		summary.Warn("remove placeholder sheet: %v", err)
	}

	if err := budgetbook.SaveFile(c.master, c.opts.MasterPath); err != nil {
		return summary, fmt.Errorf("save master workbook: %w", err)
	}
	c.logger.Info("Collated period files",
		"file", c.opts.MasterPath,
		"succeeded", summary.Count(models.StatusSucceeded),
		"skipped", summary.Count(models.StatusSkipped),
		"failed", summary.Count(models.StatusFailed))
	return summary, nil
}

func (c *Collator) collateFile(pf models.PeriodFile, summary *models.RunSummary) error {
	src, err := excelize.OpenFile(pf.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", budgetbook.ErrFileNotFound, pf.Path)
		}
		return err
	}
	defer src.Close()

	arrays, err := sheet.ReadArrayFormulas(pf.Path)
	if err != nil {
		c.logger.Warn("Could not scan array formulas", "file", pf.Name, "error", err)
	}

	srcSheet := src.GetSheetName(src.GetActiveSheetIndex())
	if srcSheet == "" {
		return fmt.Errorf("%w: no active sheet in %s", budgetbook.ErrSheetNotFound, pf.Name)
	}
	block, err := sheet.ReadBlock(src, srcSheet, c.opts.Layout.ColumnLimit(), arrays)
	if err != nil {
		return fmt.Errorf("read %s: %w", srcSheet, err)
	}
	if block.Empty() {
		summary.Warn("%s: sheet %s is empty", pf.Name, srcSheet)
		return nil
	}

	dstSheet := pf.SheetName()
	month, err := c.monthSheet(dstSheet)
	if err != nil {
		return err
	}
	startRow := AppendRow(month.lastRow)
	c.logger.Info("Appending period file", "file", pf.Name, "sheet", dstSheet, "row", startRow)

	result, err := sheet.NewPaster(src, c.master, c.logger).Paste(block, dstSheet, startRow)
	if err != nil {
		return fmt.Errorf("paste into %s: %w", dstSheet, err)
	}
	for _, p := range result.Problems {
		summary.Warn("%s: %v", pf.Name, p)
	}
	if result.LastRow > month.lastRow {
		month.lastRow = result.LastRow
	}
	c.appended = true

	if err := sheet.CopyColumnWidths(src, srcSheet, c.master, dstSheet, c.opts.Layout); err != nil {
		summary.Warn("%s: column widths: %v", pf.Name, err)
	}
	if _, err := sheet.CopyDataValidations(src, srcSheet, c.master, dstSheet, startRow-1); err != nil {
		summary.Warn("%s: data validations: %v", pf.Name, err)
	}

	if !month.anchored {
		remap, err := sheet.RemapConditionalFormats(src, srcSheet, c.master, dstSheet,
			c.opts.Layout.ConditionalRange(), c.opts.Palette, c.logger)
		if err != nil {
			summary.Warn("%s: conditional formats: %v", pf.Name, err)
			return nil
		}
		month.anchored = true
		for _, rule := range remap.Rules {
			month.labels[rule.Label] = true
		}
		for _, label := range remap.Defaulted {
			summary.Warn("%s: no color configured for label %q", pf.Name, label)
		}
		return nil
	}
	c.checkLabels(pf, src, srcSheet, month, summary)
	return nil
}

// checkLabels reports labels highlighted in a later period file that the
// month sheet's rules, anchored on the first append, do not cover.
func (c *Collator) checkLabels(pf models.PeriodFile, src *excelize.File, srcSheet string, month *monthSheet, summary *models.RunSummary) {
	rules, err := sheet.ReadSourceRules(src, srcSheet)
	if err != nil {
		return
	}
	for _, rule := range sheet.RemapRules(rules, 1, 1, c.opts.Palette).Rules {
		if month.labels[rule.Label] {
			continue
		}
		c.logger.Warn("Label is not highlighted in month sheet",
			"file", pf.Name, "sheet", pf.SheetName(), "label", rule.Label)
		summary.Warn("%s: label %q is not highlighted in %s", pf.Name, rule.Label, pf.SheetName())
	}
}

// monthSheet returns the tracking state for name, creating the sheet on first
// use.
func (c *Collator) monthSheet(name string) (*monthSheet, error) {
	if m, ok := c.months[name]; ok {
		return m, nil
	}
	if _, err := c.master.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", name, err)
	}
	m := &monthSheet{labels: make(map[string]bool)}
	c.months[name] = m
	return m, nil
}

func (c *Collator) dropPlaceholder() error {
	if !c.appended {
		return nil
	}
	idx, err := c.master.GetSheetIndex(budgetbook.PlaceholderSheet)
	if err != nil || idx < 0 {
		return err
	}
	if len(c.master.GetSheetList()) < 2 {
		return nil
	}
	if err := c.master.DeleteSheet(budgetbook.PlaceholderSheet); err != nil {
		return err
	}
	c.master.SetActiveSheet(0)
	c.logger.Info("Removed placeholder sheet")
	return nil
}
