package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LastRunFile is the marker written after a successful weekly export.
const LastRunFile = "last_run.txt"

const isoDate = "2006-01-02"

// WeekOfMonth returns the 1-based week of the month containing t, with weeks
// starting on Monday. The first, possibly partial, week is week 1.
func WeekOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	offset := (int(first.Weekday()) + 6) % 7
	return (t.Day()+offset-1)/7 + 1
}

// WeeklyFileName names the period file covering start through end, for
// example "03-09 Feb Week 2 - 2025.xlsx". Month, week, and year come from end.
func WeeklyFileName(start, end time.Time) string {
	return fmt.Sprintf("%02d-%02d %s Week %d - %d.xlsx",
		start.Day(), end.Day(), end.Format("Jan"), WeekOfMonth(end), end.Year())
}

// DebitFileName names the yearly debit export.
func DebitFileName(year int) string {
	return fmt.Sprintf("Debit Transactions %d.xlsx", year)
}

// ReadLastRun returns the date stored in dir's last-run marker. ok is false
// when the marker is missing or does not hold an ISO date.
func ReadLastRun(dir string) (t time.Time, ok bool, err error) {
	data, err := os.ReadFile(filepath.Join(dir, LastRunFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	t, err = time.Parse(isoDate, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// WriteLastRun records t as the last-run date in dir.
func WriteLastRun(dir string, t time.Time) error {
	return os.WriteFile(filepath.Join(dir, LastRunFile), []byte(t.Format(isoDate)), 0o644)
}
