// Package budgetbook provides spreadsheet bookkeeping for budget workbooks:
// collating weekly transaction exports into a yearly master and carrying a
// summary workbook forward from one month to the next.
package budgetbook

import "github.com/xuri/excelize/v2"

const (
	// DefaultMaxColumn bounds every copied block to columns A through I.
	DefaultMaxColumn = 9
	// DefaultCFRange is where label highlighting is anchored in a month sheet.
	DefaultCFRange = "A2:F300"
	// PlaceholderSheet names the sheet a fresh master workbook starts with.
	PlaceholderSheet = "Default"
)

// Layout configures how blocks are copied between workbooks.
type Layout struct {
	// MaxColumn is the right-most column (1-based) copied from a source sheet.
	MaxColumn int
	// PinnedWidths forces a column width regardless of the source sheet.
	PinnedWidths map[string]float64
	// CFRange is the destination range for remapped conditional formatting.
	CFRange string
}

// DefaultLayout returns the layout used by the monthly master workbook.
func DefaultLayout() Layout {
	return Layout{
		MaxColumn:    DefaultMaxColumn,
		PinnedWidths: map[string]float64{"E": 24},
		CFRange:      DefaultCFRange,
	}
}

// TrackedColumns returns the column letters whose widths are propagated.
func (l Layout) TrackedColumns() []string {
	maxCol := l.MaxColumn
	if maxCol <= 0 {
		maxCol = DefaultMaxColumn
	}
	cols := make([]string, 0, maxCol)
	for i := 1; i <= maxCol; i++ {
		name, err := excelize.ColumnNumberToName(i)
		if err != nil {
			break
		}
		cols = append(cols, name)
	}
	return cols
}

// ColumnLimit returns MaxColumn, falling back to the default when unset.
func (l Layout) ColumnLimit() int {
	if l.MaxColumn <= 0 {
		return DefaultMaxColumn
	}
	return l.MaxColumn
}

// ConditionalRange returns CFRange, falling back to the default when unset.
func (l Layout) ConditionalRange() string {
	if l.CFRange == "" {
		return DefaultCFRange
	}
	return l.CFRange
}
