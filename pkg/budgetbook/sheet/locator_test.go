package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/xuri/excelize/v2"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLocatePeriod(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Month"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", date(2025, time.January, 31)))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", date(2025, time.February, 28)))
	require.NoError(t, f.SetCellValue("Sheet1", "B4", "blank date"))
	require.NoError(t, f.SetCellValue("Sheet1", "A5", date(2025, time.March, 31)))

	match, err := LocatePeriod(f, "Sheet1", models.Period{Month: time.February, Year: 2025})
	require.NoError(t, err)
	assert.True(t, match.Found())
	assert.Equal(t, 3, match.Row)
	assert.False(t, match.Duplicated())
}

func TestLocatePeriodNotFound(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", date(2024, time.February, 29)))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 45000))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "February 2025"))

	match, err := LocatePeriod(f, "Sheet1", models.Period{Month: time.February, Year: 2025})
	require.NoError(t, err)
	assert.False(t, match.Found())
}

func TestLocatePeriodLastMatchWins(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A2", date(2025, time.April, 30)))
	require.NoError(t, f.SetCellValue("Sheet1", "A7", date(2025, time.January, 31)))
	require.NoError(t, f.SetCellValue("Sheet1", "A9", date(2025, time.April, 1)))

	match, err := LocatePeriod(f, "Sheet1", models.Period{Month: time.April, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 9, match.Row)
	assert.Equal(t, []int{2, 9}, match.Rows)
	assert.True(t, match.Duplicated())
}

func TestLocatePeriodSkipsFormulas(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", date(2025, time.May, 31)))
	require.NoError(t, f.SetCellFormula("Sheet1", "A1", "EOMONTH(A2,0)"))

	match, err := LocatePeriod(f, "Sheet1", models.Period{Month: time.May, Year: 2025})
	require.NoError(t, err)
	assert.False(t, match.Found())
}

func TestLocatePeriodMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := LocatePeriod(f, "Total Balance", models.Period{Month: time.May, Year: 2025})
	assert.Error(t, err)
}

func TestIsDateNumFmtCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"D/MM/YYYY", true},
		{"mmm yy", true},
		{"h:mm", true},
		{`"$"#,##0.00`, false},
		{`"$"#,##0.00_);[Red]("$"#,##0.00)`, false},
		{"0.00%", false},
		{`[$-409]d-mmm-yy`, true},
		{`"Day "0`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isDateNumFmtCode(tt.code), tt.code)
	}
}
