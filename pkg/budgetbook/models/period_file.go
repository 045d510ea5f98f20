package models

import "time"

// PeriodFile is a weekly transaction workbook discovered on disk.
type PeriodFile struct {
	// Name is the file name (no directory).
	Name string
	// Path is the full path to the file.
	Path string
	// Month is parsed from the month abbreviation in the name.
	Month time.Month
	// Week is the week-of-month index parsed from "Week <N>".
	Week int
	// Year is the trailing four-digit year.
	Year int
}

// SheetName returns the month-sheet name this file collates into.
func (p PeriodFile) SheetName() string {
	return p.Month.String()
}
