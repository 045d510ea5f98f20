// Package buckets rolls the bucket ledger sheet of a summary workbook
// forward with the debit transactions exported since its last entry.
package buckets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/classify"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/sheet"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the ledger sheet name.
const DefaultSheet = "Jacks Buckets"

const (
	ledgerDateLayout = "02/01/2006"
	debitDateLayout  = "2006-01-02"
)

// Options configures an Updater.
type Options struct {
	// Sheet is the ledger sheet. Empty means DefaultSheet.
	Sheet string
	// Categorizer assigns a category from each description.
	Categorizer classify.Categorizer
	// Logger receives progress and warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// Result describes one roll-forward.
type Result struct {
	Summary  *models.RunSummary
	LastDate time.Time
	Added    int
}

// Updater appends new debit transactions to the ledger sheet.
type Updater struct {
	opts   Options
	logger *slog.Logger
}

// New creates an Updater.
func New(opts Options) *Updater {
	if opts.Sheet == "" {
		opts.Sheet = DefaultSheet
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{opts: opts, logger: logger}
}

// Update appends to f every row of the debit export at debitPath dated after
// the ledger's last entry. A missing sheet, an undated ledger, or a missing
// export is recorded in the summary and leaves f untouched.
func (u *Updater) Update(f *excelize.File, debitPath string) (Result, error) {
	result := Result{Summary: &models.RunSummary{}}
	name := u.opts.Sheet

	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		u.logger.Warn("Sheet not found", "sheet", name)
		result.Summary.Skip(name, budgetbook.ErrSheetNotFound.Error())
		return result, nil
	}

	last, ok, err := u.lastDate(f, name)
	if err != nil {
		return result, fmt.Errorf("scan %s: %w", name, err)
	}
	if !ok {
		u.logger.Warn("No dated rows in ledger", "sheet", name)
		result.Summary.Skip(name, "no valid dates in column A")
		return result, nil
	}
	result.LastDate = last
	u.logger.Info("Last ledger entry", "sheet", name, "date", last.Format(debitDateLayout))

	txs, err := u.readDebits(debitPath, last, result.Summary)
	if err != nil {
		if errors.Is(err, budgetbook.ErrFileNotFound) {
			u.logger.Warn("Debit export not found", "file", debitPath)
			result.Summary.Skip(debitPath, err.Error())
			return result, nil
		}
		return result, err
	}
	if len(txs) == 0 {
		u.logger.Info("Ledger is up to date", "sheet", name)
		result.Summary.Succeed(name)
		return result, nil
	}

	added, err := u.append(f, name, txs)
	result.Added = added
	if err != nil {
		return result, fmt.Errorf("append to %s: %w", name, err)
	}
	u.logger.Info("Added ledger rows", "sheet", name, "count", added)
	result.Summary.Succeed(name)
	return result, nil
}

// lastDate returns the date in the last column-A cell, from row 2, that holds
// a date or DD/MM/YYYY text.
func (u *Updater) lastDate(f *excelize.File, name string) (time.Time, bool, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return time.Time{}, false, err
	}
	var last time.Time
	found := false
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) == 0 || rows[i][0] == "" {
			continue
		}
		if t, ok := readDate(f, name, i+1, rows[i][0], ledgerDateLayout); ok {
			last, found = t, true
		}
	}
	return last, found, nil
}

func readDate(f *excelize.File, sheetName string, row int, raw, layout string) (time.Time, bool) {
	if t, ok := sheet.CellDate(f, sheetName, row, raw); ok {
		return t, true
	}
	if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// readDebits returns the rows of the export's active sheet dated after last,
// oldest first.
func (u *Updater) readDebits(path string, after time.Time, summary *models.RunSummary) ([]models.Transaction, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", budgetbook.ErrFileNotFound, path)
		}
		return nil, err
	}
	src, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	srcSheet := src.GetSheetName(src.GetActiveSheetIndex())
	rows, err := src.GetRows(srcSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", srcSheet, err)
	}

	var txs []models.Transaction
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || row[0] == "" {
			continue
		}
		date, ok := readDate(src, srcSheet, i+1, row[0], debitDateLayout)
		if !ok {
			summary.Warn("%s row %d: unreadable date %q", srcSheet, i+1, row[0])
			continue
		}
		if !date.After(after) {
			continue
		}
		tx := models.Transaction{Date: date, Description: column(row, 1)}
		if raw := column(row, 2); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				summary.Warn("%s row %d: unreadable amount %q", srcSheet, i+1, raw)
				continue
			}
			tx.Amount = amount
		}
		tx.Category = u.opts.Categorizer.Category(tx.Description)
		txs = append(txs, tx)
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
	return txs, nil
}

func column(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// append writes txs below the ledger's last populated row as Date,
// Description, Category, Amount.
func (u *Updater) append(f *excelize.File, name string, txs []models.Transaction) (int, error) {
	styles := sheet.NewNamedStyles(f)
	if err := styles.RegisterLedgerStyles(); err != nil {
		return 0, err
	}
	lastRow, _, err := sheet.UsedBounds(f, name)
	if err != nil {
		return 0, err
	}
	start := lastRow + 1

	for i, tx := range txs {
		row := start + i
		amountStyle := sheet.CurrencyStyle
		if tx.Amount.IsNegative() {
			amountStyle = sheet.CurrencyNegativeStyle
		}
		cells := []struct {
			col   string
			value interface{}
			style string
		}{
			{"A", tx.Date, sheet.DateStyle},
			{"B", tx.Description, sheet.TextStyle},
			{"C", tx.Category, sheet.TextStyle},
			{"D", tx.Amount.InexactFloat64(), amountStyle},
		}
		for _, c := range cells {
			cell := fmt.Sprintf("%s%d", c.col, row)
			if err := f.SetCellValue(name, cell, c.value); err != nil {
				return i, err
			}
			if err := styles.Apply(name, cell, c.style); err != nil {
				return i, err
			}
			if start > 2 {
				if err := sheet.CopyFillAndBorder(f, name, fmt.Sprintf("%s%d", c.col, row-1), cell); err != nil {
					return i, budgetbook.NewCellError(name, cell, "style", err)
				}
			}
		}
	}
	return len(txs), nil
}
