package sheet

import (
	"github.com/xuri/excelize/v2"
)

// UsedBounds returns the last populated row and column of a sheet, both
// 1-based. Formula cells count even without a cached value. An empty sheet
// yields (0, 0).
func UsedBounds(f *excelize.File, sheetName string) (maxRow, maxCol int, err error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, 0, err
	}
	maxRow, maxCol = populatedBounds(rows)
	return maxRow, maxCol, nil
}

// populatedBounds returns the number of rows and columns spanned by rows as
// GetRows reports them: a row slice ends at its last cell holding a value or
// a formula, so its length is the row's extent.
func populatedBounds(rows [][]string) (maxRow, maxCol int) {
	for rowIdx, row := range rows {
		if len(row) == 0 {
			continue
		}
		maxRow = rowIdx + 1
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	return maxRow, maxCol
}

// Extent returns the larger of the populated bounds and the dimension the
// sheet records, so formula cells without cached values are still covered.
func Extent(f *excelize.File, sheetName string) (maxRow, maxCol int, err error) {
	maxRow, maxCol, err = UsedBounds(f, sheetName)
	if err != nil {
		return 0, 0, err
	}
	dim, dimErr := f.GetSheetDimension(sheetName)
	if dimErr != nil || dim == "" {
		return maxRow, maxCol, nil
	}
	if area, areaErr := ParseArea(dim); areaErr == nil {
		maxRow = max(maxRow, area.R2)
		maxCol = max(maxCol, area.C2)
	}
	return maxRow, maxCol, nil
}
