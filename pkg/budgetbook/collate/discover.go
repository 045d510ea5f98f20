package collate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
)

// periodFilePattern matches names such as "03-09 Feb Week 2 - 2025.xlsx".
var periodFilePattern = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\b.*\bWeek\s+(\d+)\b.*\b(\d{4})\.xlsx$`)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParsePeriodFile extracts month, week, and year from a period file name.
func ParsePeriodFile(name string) (models.PeriodFile, error) {
	m := periodFilePattern.FindStringSubmatch(name)
	if m == nil {
		return models.PeriodFile{}, fmt.Errorf("%q does not follow the <Mon> Week <N> - <YYYY>.xlsx convention", name)
	}
	week, err := strconv.Atoi(m[2])
	if err != nil || week < 1 {
		return models.PeriodFile{}, fmt.Errorf("%q has an invalid week index", name)
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return models.PeriodFile{}, fmt.Errorf("%q has an invalid year", name)
	}
	return models.PeriodFile{
		Name:  name,
		Month: monthAbbrev[strings.ToLower(m[1])],
		Week:  week,
		Year:  year,
	}, nil
}

// Discover lists the period files in dir that belong to year, sorted by
// week index numerically. Files that look like period files but cannot be
// used are returned as skipped outcomes.
func Discover(dir string, year int) ([]models.PeriodFile, []models.Outcome, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	var files []models.PeriodFile
	var skipped []models.Outcome
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(name), ".xlsx") || !strings.Contains(name, "Week") {
			continue
		}

		pf, err := ParsePeriodFile(name)
		if err != nil {
			skipped = append(skipped, models.Outcome{Unit: name, Status: models.StatusSkipped, Reason: err.Error()})
			continue
		}
		if pf.Year != year {
			skipped = append(skipped, models.Outcome{
				Unit:   name,
				Status: models.StatusSkipped,
				Reason: fmt.Sprintf("year %d does not match %d", pf.Year, year),
			})
			continue
		}
		pf.Path = filepath.Join(dir, name)
		files = append(files, pf)
	}

	SortPeriodFiles(files)
	return files, skipped, nil
}

// SortPeriodFiles orders files by week index, then month, then name.
func SortPeriodFiles(files []models.PeriodFile) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Name < b.Name
	})
}
