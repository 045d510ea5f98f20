package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/xuri/excelize/v2"
)

// Match is the result of scanning a sheet for a period row.
type Match struct {
	// Row is the matching row, 0 when nothing matched.
	Row int
	// Rows lists every matching row in scan order. More than one entry is a
	// data-integrity problem; Row holds the last of them.
	Rows []int
}

// Found reports whether any row matched.
func (m Match) Found() bool {
	return m.Row > 0
}

// Duplicated reports whether more than one row matched.
func (m Match) Duplicated() bool {
	return len(m.Rows) > 1
}

// LocatePeriod scans column A of a sheet top to bottom for a date in period.
// Rows are not assumed to be sorted. Blank, text, and formula cells are
// skipped. When several rows match, the last one wins.
func LocatePeriod(f *excelize.File, sheetName string, period models.Period) (Match, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return Match{}, err
	}

	var match Match
	for rowIdx, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		rowNum := rowIdx + 1
		date, ok := CellDate(f, sheetName, rowNum, row[0])
		if !ok || !period.Matches(date) {
			continue
		}
		match.Row = rowNum
		match.Rows = append(match.Rows, rowNum)
	}
	return match, nil
}

// CellDate interprets the raw column-A value of a row as a date. Only literal
// dates count: either a serial number under a date number format or a cell
// stored with the date type. Formula cells never match.
func CellDate(f *excelize.File, sheetName string, row int, raw string) (time.Time, bool) {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return time.Time{}, false
	}
	if formula, err := f.GetCellFormula(sheetName, cell); err == nil && formula != "" {
		return time.Time{}, false
	}

	cellType, err := f.GetCellType(sheetName, cell)
	if err != nil {
		return time.Time{}, false
	}
	switch cellType {
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return t, true
		}
		return time.Time{}, false
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
	default:
		return time.Time{}, false
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, false
	}
	styleID, err := f.GetCellStyle(sheetName, cell)
	if err != nil {
		return time.Time{}, false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || !IsDateFormat(style) {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsDateFormat reports whether a style formats numbers as dates.
func IsDateFormat(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		return isDateNumFmtCode(*style.CustomNumFmt)
	}
	return isBuiltinDateNumFmt(style.NumFmt)
}

func isBuiltinDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateNumFmtCode looks for date or time tokens outside quoted text,
// bracketed sections, and escaped characters.
func isDateNumFmtCode(code string) bool {
	if section, _, found := strings.Cut(code, ";"); found {
		code = section
	}
	inQuote := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '\\' || c == '_' || c == '*':
			i++
		case c == '[':
			if j := strings.IndexByte(code[i:], ']'); j >= 0 {
				i += j
			}
		case strings.IndexByte("dDmMyYhHsS", c) >= 0:
			return true
		}
	}
	return false
}
