package models

import "time"

// Period identifies one calendar month.
type Period struct {
	Month time.Month
	Year  int
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

// Previous returns the calendar month before p.
func (p Period) Previous() Period {
	if p.Month == time.January {
		return Period{Month: time.December, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// Matches reports whether t falls in the period.
func (p Period) Matches(t time.Time) bool {
	return t.Month() == p.Month && t.Year() == p.Year
}

func (p Period) String() string {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}
