// Package models defines data structures shared by the workbook engines.
package models

// Cell is a single copied cell within a row.
type Cell struct {
	// Col is the column index (1-based).
	Col int
	// Value is the scalar or cached value: float64, bool, string, or nil.
	Value interface{}
	// Formula is the formula text without the leading "=", empty for scalars.
	Formula string
	// ArrayRef is the range an array formula spills over, empty otherwise.
	ArrayRef string
	// StyleID is the cell's style index in its source workbook (0 is default).
	StyleID int
}

// IsFormula reports whether the cell holds a formula.
func (c Cell) IsFormula() bool {
	return c.Formula != ""
}

// IsEmpty reports whether the cell holds neither a value nor a formula.
func (c Cell) IsEmpty() bool {
	if c.Formula != "" {
		return false
	}
	if s, ok := c.Value.(string); ok {
		return s == ""
	}
	return c.Value == nil
}

// CellRow represents a single row of cells.
type CellRow struct {
	// R is the row index (1-based).
	R int
	// C holds the row's cells ordered by column.
	C []Cell
}
