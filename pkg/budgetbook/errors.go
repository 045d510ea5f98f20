package budgetbook

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrSheetNotFound indicates a required worksheet is missing from a workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrPeriodNotFound indicates no row in a sheet holds the requested month.
var ErrPeriodNotFound = errors.New("period row not found")

// ErrInvalidReference indicates a cell reference in a formula could not be parsed
// or would fall outside the sheet after translation.
var ErrInvalidReference = errors.New("invalid cell reference")

// ErrNoCachedValue indicates a formula cell has no last computed value to freeze.
var ErrNoCachedValue = errors.New("no cached value for formula")

// CellError represents a failure while processing a single cell.
type CellError struct {
	Sheet string
	Cell  string
	Op    string // "translate", "freeze", "style", "rewrite"
	Err   error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s failed at %s!%s: %v", e.Op, e.Sheet, e.Cell, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// NewCellError creates a new CellError.
func NewCellError(sheet, cell, op string, err error) *CellError {
	return &CellError{
		Sheet: sheet,
		Cell:  cell,
		Op:    op,
		Err:   err,
	}
}
