package sheet

import (
	"strconv"
	"time"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/xuri/excelize/v2"
)

// ReadBlock reads every cell from row 1 to the last populated row, bounded to
// maxCol columns. Values come from the cached cell contents, formulas from the
// formula text, and array anchors from arrays (which may be nil).
func ReadBlock(f *excelize.File, sheetName string, maxCol int, arrays ArrayFormulas) (models.Block, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Block{}, err
	}

	block := models.Block{Sheet: sheetName, MaxCol: maxCol}
	block.MaxRow, _ = populatedBounds(clipRows(rows, maxCol))

	for rowIdx := 0; rowIdx < block.MaxRow; rowIdx++ {
		rowNum := rowIdx + 1 // 1-based row index
		var raw []string
		if rowIdx < len(rows) {
			raw = rows[rowIdx]
		}

		row := models.CellRow{R: rowNum, C: make([]models.Cell, 0, maxCol)}
		for col := 1; col <= maxCol; col++ {
			cellName, err := excelize.CoordinatesToCellName(col, rowNum)
			if err != nil {
				return models.Block{}, err
			}

			cell := models.Cell{Col: col}
			if col-1 < len(raw) {
				cellType, _ := f.GetCellType(sheetName, cellName)
				cell.Value = typedValue(raw[col-1], cellType)
			}
			if formula, err := f.GetCellFormula(sheetName, cellName); err == nil && formula != "" {
				cell.Formula = formula
				if ref, ok := arrays.Ref(sheetName, cellName); ok {
					cell.ArrayRef = ref
				}
			}
			if styleID, err := f.GetCellStyle(sheetName, cellName); err == nil {
				cell.StyleID = styleID
			}
			row.C = append(row.C, cell)
		}
		block.Rows = append(block.Rows, row)
	}

	return block, nil
}

// clipRows drops columns past maxCol so they do not extend the block. Blank
// cells left at the end of a clipped row are trimmed too.
func clipRows(rows [][]string, maxCol int) [][]string {
	clipped := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > maxCol {
			row = row[:maxCol]
			for len(row) > 0 && row[len(row)-1] == "" {
				row = row[:len(row)-1]
			}
		}
		clipped[i] = row
	}
	return clipped
}

// typedValue converts a raw cell string into the Go value excelize should
// write back, keeping strings as strings even when they look numeric.
func typedValue(raw string, cellType excelize.CellType) interface{} {
	if raw == "" {
		return nil
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return raw
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return t
		}
		return raw
	}
	return parseValue(raw)
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
