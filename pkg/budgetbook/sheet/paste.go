package sheet

import (
	"log/slog"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/xuri/excelize/v2"
)

// PasteResult summarizes a block copy.
type PasteResult struct {
	// Cells is the number of cells written.
	Cells int
	// LastRow is the last destination row that received a populated cell.
	LastRow int
	// Problems holds per-cell failures that did not stop the copy.
	Problems []*budgetbook.CellError
}

// Paster copies blocks from a source workbook into a destination workbook,
// translating formulas and copying styles by value.
type Paster struct {
	src    *excelize.File
	dst    *excelize.File
	styles *StyleCopier
	logger *slog.Logger
}

// NewPaster creates a Paster for one source workbook.
func NewPaster(src, dst *excelize.File, logger *slog.Logger) *Paster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Paster{src: src, dst: dst, styles: NewStyleCopier(src, dst), logger: logger}
}

// Paste writes block into dstSheet with block row 1 landing on startRow.
func (p *Paster) Paste(block models.Block, dstSheet string, startRow int) (PasteResult, error) {
	var result PasteResult
	for _, row := range block.Rows {
		dstRow := startRow + row.R - 1
		for _, cell := range row.C {
			srcName, err := excelize.CoordinatesToCellName(cell.Col, row.R)
			if err != nil {
				return result, err
			}
			dstName, err := excelize.CoordinatesToCellName(cell.Col, dstRow)
			if err != nil {
				return result, err
			}

			if err := p.writeCell(cell, srcName, dstSheet, dstName, row.R, dstRow, &result); err != nil {
				return result, err
			}
			if err := p.styles.Apply(dstSheet, dstName, cell.StyleID); err != nil {
				p.problem(&result, budgetbook.NewCellError(dstSheet, dstName, "style", err))
			}
			if !cell.IsEmpty() {
				result.Cells++
				result.LastRow = dstRow
			}
		}
	}
	return result, nil
}

func (p *Paster) writeCell(cell models.Cell, srcName, dstSheet, dstName string, srcRow, dstRow int, result *PasteResult) error {
	if cell.Value != nil {
		if err := p.dst.SetCellValue(dstSheet, dstName, cell.Value); err != nil {
			return err
		}
	}
	if !cell.IsFormula() {
		return nil
	}

	formula, err := Translate(cell.Formula, srcName, dstName)
	if err != nil {
		p.problem(result, budgetbook.NewCellError(dstSheet, dstName, "translate", err))
		formula = cell.Formula
	}
	if cell.ArrayRef == "" {
		return p.dst.SetCellFormula(dstSheet, dstName, formula)
	}

	ref, err := ShiftRange(cell.ArrayRef, dstRow-srcRow, 0)
	if err != nil {
		p.problem(result, budgetbook.NewCellError(dstSheet, dstName, "translate", err))
		ref = dstName
	}
	formulaType := excelize.STCellFormulaTypeArray
	return p.dst.SetCellFormula(dstSheet, dstName, formula, excelize.FormulaOpts{Type: &formulaType, Ref: &ref})
}

func (p *Paster) problem(result *PasteResult, cellErr *budgetbook.CellError) {
	p.logger.Warn("Cell left as-is", "sheet", cellErr.Sheet, "cell", cellErr.Cell, "op", cellErr.Op, "error", cellErr.Err)
	result.Problems = append(result.Problems, cellErr)
}

// CopyDataValidations re-anchors the drop-down lists of srcSheet onto dstSheet,
// moved down by dRow rows.
func CopyDataValidations(src *excelize.File, srcSheet string, dst *excelize.File, dstSheet string, dRow int) (int, error) {
	validations, err := src.GetDataValidations(srcSheet)
	if err != nil {
		return 0, err
	}
	copied := 0
	for _, dv := range validations {
		if dv == nil {
			continue
		}
		moved := *dv
		sqref, err := ShiftSqref(dv.Sqref, dRow, 0)
		if err != nil {
			return copied, err
		}
		moved.Sqref = sqref
		if err := dst.AddDataValidation(dstSheet, &moved); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}
