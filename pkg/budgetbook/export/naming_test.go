package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/collate"
)

func TestWeekOfMonth(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		// February 2025 starts on a Saturday.
		{time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), 5},
		// September 2025 starts on a Monday.
		{time.Date(2025, time.September, 7, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2025, time.September, 29, 0, 0, 0, 0, time.UTC), 5},
		// June 2025 starts on a Sunday and spans six weeks.
		{time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC), 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeekOfMonth(tt.date), tt.date.Format("2006-01-02"))
	}
}

func TestWeeklyFileNameIsDiscoverable(t *testing.T) {
	start := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.February, 9, 0, 0, 0, 0, time.UTC)

	name := WeeklyFileName(start, end)
	assert.Equal(t, "03-09 Feb Week 2 - 2025.xlsx", name)

	pf, err := collate.ParsePeriodFile(name)
	require.NoError(t, err)
	assert.Equal(t, time.February, pf.Month)
	assert.Equal(t, 2, pf.Week)
	assert.Equal(t, 2025, pf.Year)
}

func TestDebitFileName(t *testing.T) {
	assert.Equal(t, "Debit Transactions 2025.xlsx", DebitFileName(2025))
}

func TestLastRun(t *testing.T) {
	dir := t.TempDir()

	_, ok, err := ReadLastRun(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	day := time.Date(2025, time.February, 9, 0, 0, 0, 0, time.UTC)
	require.NoError(t, WriteLastRun(dir, day))
	got, ok, err := ReadLastRun(dir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(day))

	require.NoError(t, os.WriteFile(filepath.Join(dir, LastRunFile), []byte("yesterday"), 0o644))
	_, ok, err = ReadLastRun(dir)
	require.NoError(t, err)
	assert.False(t, ok)
}
