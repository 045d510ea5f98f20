// Package carryforward rolls a summary workbook from one month to the next:
// the previous month's row is frozen to values and unbolded, the current
// month's row is bolded, and budget formulas are re-pointed at the current
// month's sheet of the yearly master workbook.
package carryforward

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/sheet"
	"github.com/xuri/excelize/v2"
)

// Default sheet names in the summary workbook.
const (
	DefaultBalanceSheet = "Total Balance"
	DefaultBudgetSheet  = "Budget"
)

// Options configures the engine.
type Options struct {
	// BalanceSheet holds one row per month, dated in column A.
	BalanceSheet string
	// BudgetSheet holds formulas that reference the master workbook.
	BudgetSheet string
	// ExternalWorkbook is the master workbook name written into references.
	ExternalWorkbook string
	// AsOf decides which month is current.
	AsOf time.Time
	// Logger receives progress and warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// Report counts the changes made by a run.
type Report struct {
	Summary   *models.RunSummary
	Frozen    int
	Unbolded  int
	Bolded    int
	Rewritten int
}

// Changed returns the total number of cells modified.
func (r Report) Changed() int {
	return r.Frozen + r.Unbolded + r.Bolded + r.Rewritten
}

// Engine holds two views of one persisted summary workbook: a formula view
// that is modified and saved, and a read-only view used for cached values.
type Engine struct {
	opts   Options
	logger *slog.Logger

	f      *excelize.File
	values *excelize.File
	arrays sheet.ArrayFormulas
}

// Open loads the workbook at path twice. The caller must Close the engine.
func Open(path string, opts Options) (*Engine, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", budgetbook.ErrFileNotFound, path)
		}
		return nil, err
	}
	if opts.BalanceSheet == "" {
		opts.BalanceSheet = DefaultBalanceSheet
	}
	if opts.BudgetSheet == "" {
		opts.BudgetSheet = DefaultBudgetSheet
	}
	if opts.AsOf.IsZero() {
		opts.AsOf = time.Now()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	values, err := excelize.OpenFile(path)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s for cached values: %w", path, err)
	}
	arrays, err := sheet.ReadArrayFormulas(path)
	if err != nil {
		logger.Warn("Could not scan array formulas", "file", path, "error", err)
	}

	return &Engine{opts: opts, logger: logger, f: f, values: values, arrays: arrays}, nil
}

// File returns the formula view, which later stages may modify before Save.
func (e *Engine) File() *excelize.File {
	return e.f
}

// Close releases both views.
func (e *Engine) Close() error {
	return errors.Join(e.f.Close(), e.values.Close())
}

// Save writes the formula view to path, which may differ from the source.
func (e *Engine) Save(path string) error {
	if err := budgetbook.SaveFile(e.f, path); err != nil {
		return err
	}
	e.logger.Info("Saved summary workbook", "file", path)
	return nil
}

// Run closes the previous month, activates the current month, and rewrites
// the budget sheet's external references. Missing sheets and rows are
// recorded in the summary and do not stop the other steps.
func (e *Engine) Run() Report {
	report := Report{Summary: &models.RunSummary{}}
	e.closePrevious(&report)
	e.activateCurrent(&report)
	e.rewriteReferences(&report)
	return report
}

func (e *Engine) hasSheet(f *excelize.File, name string) bool {
	idx, err := f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

func (e *Engine) locate(period models.Period, summary *models.RunSummary) (int, bool) {
	name := e.opts.BalanceSheet
	match, err := sheet.LocatePeriod(e.f, name, period)
	if err != nil {
		e.logger.Warn("Failed to scan for period", "sheet", name, "period", period, "error", err)
		summary.Warn("%s: scan for %s: %v", name, period, err)
		return 0, false
	}
	if match.Duplicated() {
		for _, row := range match.Rows {
			e.logger.Warn("Duplicate period row", "sheet", name, "period", period, "row", row)
		}
		summary.Warn("%s: %d rows hold %s, using row %d", name, len(match.Rows), period, match.Row)
	}
	if !match.Found() {
		e.logger.Warn("No row for period", "sheet", name, "period", period)
		summary.Skip(fmt.Sprintf("%s %s", name, period), fmt.Sprintf("%v", budgetbook.ErrPeriodNotFound))
		return 0, false
	}
	return match.Row, true
}

func (e *Engine) closePrevious(report *Report) {
	name := e.opts.BalanceSheet
	if !e.hasSheet(e.f, name) {
		e.logger.Warn("Sheet not found", "sheet", name)
		report.Summary.Skip(name, budgetbook.ErrSheetNotFound.Error())
		return
	}
	previous := models.PeriodOf(e.opts.AsOf).Previous()
	row, ok := e.locate(previous, report.Summary)
	if !ok {
		return
	}
	e.logger.Info("Closing previous month", "sheet", name, "period", previous, "row", row)

	maxCol := e.columns(name)
	for col := 1; col <= maxCol; col++ {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			continue
		}
		frozen, err := e.freeze(name, cell)
		if err != nil {
			if errors.Is(err, budgetbook.ErrNoCachedValue) {
				e.logger.Warn("No cached value, formula kept", "sheet", name, "cell", cell)
			} else {
				e.logger.Error("Failed to freeze cell", "sheet", name, "cell", cell, "error", err)
			}
			report.Summary.Warn("%v", err)
			continue
		}
		if frozen {
			report.Frozen++
		}
	}

	n, err := sheet.SetRowBold(e.f, name, row, maxCol, false)
	report.Unbolded += n
	if err != nil {
		report.Summary.Fail(fmt.Sprintf("%s row %d", name, row), err)
		return
	}
	report.Summary.Succeed(fmt.Sprintf("%s %s closed", name, previous))
}

// freeze replaces a formula with its cached value. Cells without a formula
// are left alone.
func (e *Engine) freeze(sheetName, cell string) (bool, error) {
	formula, err := e.f.GetCellFormula(sheetName, cell)
	if err != nil {
		return false, budgetbook.NewCellError(sheetName, cell, "freeze", err)
	}
	if formula == "" {
		return false, nil
	}

	raw, err := e.values.GetCellValue(sheetName, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return false, budgetbook.NewCellError(sheetName, cell, "freeze", err)
	}
	if raw == "" {
		return false, budgetbook.NewCellError(sheetName, cell, "freeze", budgetbook.ErrNoCachedValue)
	}
	cellType, _ := e.values.GetCellType(sheetName, cell)

	if err := e.f.SetCellFormula(sheetName, cell, ""); err != nil {
		return false, budgetbook.NewCellError(sheetName, cell, "freeze", err)
	}
	if err := e.f.SetCellValue(sheetName, cell, cachedValue(raw, cellType)); err != nil {
		return false, budgetbook.NewCellError(sheetName, cell, "freeze", err)
	}
	return true, nil
}

// cachedValue turns a formula's cached result into the value to store.
// Formula results typed as strings stay strings even if they look numeric.
func cachedValue(raw string, cellType excelize.CellType) interface{} {
	switch cellType {
	case excelize.CellTypeFormula, excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return raw
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE"
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return raw
}

func (e *Engine) activateCurrent(report *Report) {
	name := e.opts.BalanceSheet
	if !e.hasSheet(e.f, name) {
		return
	}
	current := models.PeriodOf(e.opts.AsOf)
	row, ok := e.locate(current, report.Summary)
	if !ok {
		return
	}
	n, err := sheet.SetRowBold(e.f, name, row, e.columns(name), true)
	report.Bolded += n
	if err != nil {
		report.Summary.Fail(fmt.Sprintf("%s row %d", name, row), err)
		return
	}
	e.logger.Info("Activated current month", "sheet", name, "period", current, "row", row)
	report.Summary.Succeed(fmt.Sprintf("%s %s activated", name, current))
}

func (e *Engine) rewriteReferences(report *Report) {
	name := e.opts.BudgetSheet
	if !e.hasSheet(e.f, name) {
		e.logger.Warn("Sheet not found", "sheet", name)
		report.Summary.Skip(name, budgetbook.ErrSheetNotFound.Error())
		return
	}
	if e.opts.ExternalWorkbook == "" {
		report.Summary.Skip(name, "no external workbook configured")
		return
	}
	month := e.opts.AsOf.Month()

	maxRow, maxCol, err := sheet.Extent(e.f, name)
	if err != nil {
		report.Summary.Fail(name, err)
		return
	}
	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				continue
			}
			formula, err := e.f.GetCellFormula(name, cell)
			if err != nil || formula == "" {
				continue
			}
			updated, n := RewriteExternalRefs(formula, e.opts.ExternalWorkbook, month)
			if n == 0 {
				continue
			}
			if err := e.setFormula(name, cell, updated); err != nil {
				cellErr := budgetbook.NewCellError(name, cell, "rewrite", err)
				e.logger.Error("Failed to rewrite formula", "sheet", name, "cell", cell, "error", err)
				report.Summary.Warn("%v", cellErr)
				continue
			}
			e.logger.Debug("Rewrote formula", "sheet", name, "cell", cell, "from", formula, "to", updated)
			report.Rewritten++
		}
	}
	report.Summary.Succeed(fmt.Sprintf("%s references", name))
}

// setFormula writes a formula, keeping the array range of array formulas.
func (e *Engine) setFormula(sheetName, cell, formula string) error {
	ref, ok := e.arrays.Ref(sheetName, cell)
	if !ok {
		return e.f.SetCellFormula(sheetName, cell, formula)
	}
	formulaType := excelize.STCellFormulaTypeArray
	return e.f.SetCellFormula(sheetName, cell, formula, excelize.FormulaOpts{Type: &formulaType, Ref: &ref})
}

// columns returns the right-most column used by a sheet in either view.
func (e *Engine) columns(sheetName string) int {
	_, maxCol, _ := sheet.Extent(e.f, sheetName)
	if _, valueCol, err := sheet.Extent(e.values, sheetName); err == nil && valueCol > maxCol {
		maxCol = valueCol
	}
	return maxCol
}
