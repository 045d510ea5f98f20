package collate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
)

func TestParsePeriodFile(t *testing.T) {
	tests := []struct {
		name  string
		month time.Month
		week  int
		year  int
		ok    bool
	}{
		{"03-09 Feb Week 2 - 2025.xlsx", time.February, 2, 2025, true},
		{"29-04 May Week 10 - 2025.xlsx", time.May, 10, 2025, true},
		{"01-07 Sept Week 1 - 2024.xlsx", time.September, 1, 2024, true},
		{"Week 2 - 2025.xlsx", 0, 0, 0, false},
		{"03-09 Feb Week two - 2025.xlsx", 0, 0, 0, false},
		{"Summary Week 3 - 2025.xlsx", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf, err := ParsePeriodFile(tt.name)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.month, pf.Month)
			assert.Equal(t, tt.week, pf.Week)
			assert.Equal(t, tt.year, pf.Year)
		})
	}
}

func TestDiscoverSortsWeeksNumerically(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"01-07 Mar Week 10 - 2025.xlsx",
		"08-14 Mar Week 2 - 2025.xlsx",
		"01-07 Mar Week 1 - 2025.xlsx",
		"15-21 Mar Week 3 - 2025.xlsx",
		"01-07 Mar Week 4 - 2024.xlsx",
		"~$01-07 Mar Week 5 - 2025.xlsx",
		"Debit Transactions 2025.xlsx",
		"notes.txt",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, skipped, err := Discover(dir, 2025)
	require.NoError(t, err)

	var weeks []int
	for _, f := range files {
		weeks = append(weeks, f.Week)
		assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
	}
	assert.Equal(t, []int{1, 2, 3, 10}, weeks)

	require.Len(t, skipped, 1)
	assert.Equal(t, "01-07 Mar Week 4 - 2024.xlsx", skipped[0].Unit)
	assert.Equal(t, models.StatusSkipped, skipped[0].Status)
}

func TestDiscoverMissingDir(t *testing.T) {
	_, _, err := Discover(filepath.Join(t.TempDir(), "missing"), 2025)
	assert.Error(t, err)
}

func TestSortPeriodFiles(t *testing.T) {
	files := []models.PeriodFile{
		{Name: "b", Month: time.March, Week: 1},
		{Name: "a", Month: time.February, Week: 2},
		{Name: "c", Month: time.February, Week: 1},
	}
	SortPeriodFiles(files)
	assert.Equal(t, "c", files[0].Name)
	assert.Equal(t, "b", files[1].Name)
	assert.Equal(t, "a", files[2].Name)
}
