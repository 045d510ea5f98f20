package sheet

import (
	"fmt"
	"strings"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/xuri/excelize/v2"
)

// ParseArea parses a range string like $A$1:$D$10 or a single cell like B3.
// Sheet prefixes (Sheet1!A1:B2) are ignored.
func ParseArea(rangeStr string) (*models.Area, error) {
	if idx := strings.LastIndex(rangeStr, "!"); idx >= 0 {
		rangeStr = rangeStr[idx+1:]
	}
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: range %q", budgetbook.ErrInvalidReference, rangeStr)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", budgetbook.ErrInvalidReference, err)
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", budgetbook.ErrInvalidReference, err)
	}

	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	return &models.Area{R1: startRow, C1: startCol, R2: endRow, C2: endCol}, nil
}

// FormatArea renders an area as A1:B2 notation.
func FormatArea(a models.Area) string {
	start, _ := excelize.CoordinatesToCellName(a.C1, a.R1)
	end, _ := excelize.CoordinatesToCellName(a.C2, a.R2)
	if start == end {
		return start
	}
	return start + ":" + end
}

// ShiftSqref moves every range of a space-separated sqref list.
func ShiftSqref(sqref string, dRow, dCol int) (string, error) {
	parts := strings.Fields(sqref)
	for i, p := range parts {
		shifted, err := ShiftRange(p, dRow, dCol)
		if err != nil {
			return sqref, err
		}
		parts[i] = shifted
	}
	return strings.Join(parts, " "), nil
}

// SqrefTopLeft returns the top-left corner of the first range in sqref.
func SqrefTopLeft(sqref string) (row, col int, err error) {
	parts := strings.Fields(sqref)
	if len(parts) == 0 {
		return 0, 0, fmt.Errorf("%w: empty range", budgetbook.ErrInvalidReference)
	}
	area, err := ParseArea(parts[0])
	if err != nil {
		return 0, 0, err
	}
	return area.R1, area.C1, nil
}
