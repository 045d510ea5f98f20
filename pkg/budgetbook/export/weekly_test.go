package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/sheet"
	"github.com/xuri/excelize/v2"
)

var testPalette = models.LabelPalette{
	Colors:  map[string]string{"Ruby": "FF2C55", "Jack": "5582AE", "Both": "00FF00"},
	Default: "FFFF00",
}

func testTransactions() []models.Transaction {
	return []models.Transaction{
		{Date: time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC), Description: "Coffee Club", Amount: decimal.RequireFromString("-4.50"), BankCategory: "Dining"},
		{Date: time.Date(2025, time.February, 4, 0, 0, 0, 0, time.UTC), Description: "Woolworths", Amount: decimal.RequireFromString("-80.25"), BankCategory: "Groceries", Label: "Both"},
		{Date: time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC), Description: "Cinema", Amount: decimal.RequireFromString("-22"), BankCategory: "Recreation", Label: "Jack"},
	}
}

func testWeeklyOptions() WeeklyOptions {
	return WeeklyOptions{
		Week:         2,
		Participants: []string{"Jack", "Ruby"},
		Shared:       "Both",
		Palette:      testPalette,
	}
}

func TestWeeklyWorkbookLayout(t *testing.T) {
	f, err := WeeklyWorkbook(testTransactions(), testWeeklyOptions())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TransactionsSheet}, f.GetSheetList())

	header, err := f.GetCellValue(TransactionsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date - Week 2", header)
	bold, err := sheet.IsBold(f, TransactionsSheet, "F1")
	require.NoError(t, err)
	assert.True(t, bold)

	raw, err := f.GetCellValue(TransactionsSheet, "A2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	got, ok := sheet.CellDate(f, TransactionsSheet, 2, raw)
	require.True(t, ok)
	assert.Equal(t, time.February, got.Month())
	assert.Equal(t, 3, got.Day())

	amount, err := f.GetCellValue(TransactionsSheet, "C3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "-80.25", amount)

	label, err := f.GetCellValue(TransactionsSheet, "F4")
	require.NoError(t, err)
	assert.Equal(t, "Jack", label)
}

func TestWeeklyWorkbookSummaryTable(t *testing.T) {
	f, err := WeeklyWorkbook(testTransactions(), testWeeklyOptions())
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue(TransactionsSheet, "H3")
	require.NoError(t, err)
	assert.Equal(t, "Jack", name)

	formula, err := f.GetCellFormula(TransactionsSheet, "I3")
	require.NoError(t, err)
	assert.Equal(t, `SUMIFS(C2:C4,F2:F4,"Jack")+SUMIFS(C2:C4,F2:F4,"Both")/2`, formula)

	formula, err = f.GetCellFormula(TransactionsSheet, "I4")
	require.NoError(t, err)
	assert.Equal(t, `SUMIFS(C2:C4,F2:F4,"Ruby")+SUMIFS(C2:C4,F2:F4,"Both")/2`, formula)

	total, err := f.GetCellValue(TransactionsSheet, "H5")
	require.NoError(t, err)
	assert.Equal(t, TotalLabel, total)
	formula, err = f.GetCellFormula(TransactionsSheet, "I5")
	require.NoError(t, err)
	assert.Equal(t, "SUM(I3:I4)", formula)

	styleID, err := f.GetCellStyle(TransactionsSheet, "H4")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.Equal(t, []string{"FF2C55"}, style.Fill.Color)
}

func TestWeeklyWorkbookHighlightsAndDropDowns(t *testing.T) {
	f, err := WeeklyWorkbook(testTransactions(), testWeeklyOptions())
	require.NoError(t, err)
	defer f.Close()

	formats, err := f.GetConditionalFormats(TransactionsSheet)
	require.NoError(t, err)
	require.Contains(t, formats, "A2:F4")
	var labels []string
	for _, opt := range formats["A2:F4"] {
		_, label, ok := sheet.ParseLabelTrigger(opt.Criteria)
		require.True(t, ok, opt.Criteria)
		labels = append(labels, label)
	}
	assert.ElementsMatch(t, []string{"Jack", "Ruby", "Both"}, labels)

	dvs, err := f.GetDataValidations(TransactionsSheet)
	require.NoError(t, err)
	require.Len(t, dvs, 2)
	bySqref := map[string]string{}
	for _, dv := range dvs {
		bySqref[dv.Sqref] = dv.Formula1
	}
	assert.Contains(t, bySqref["D2:D4"], "Groceries")
	assert.Contains(t, bySqref["F2:F4"], "Jack,Ruby,Both")
}

func TestWeeklyWorkbookEmpty(t *testing.T) {
	f, err := WeeklyWorkbook(nil, testWeeklyOptions())
	require.NoError(t, err)
	defer f.Close()

	formula, err := f.GetCellFormula(TransactionsSheet, "I3")
	require.NoError(t, err)
	assert.Equal(t, `SUMIFS(C2:C2,F2:F2,"Jack")+SUMIFS(C2:C2,F2:F2,"Both")/2`, formula)
}

func TestWeeklyWorkbookOverflowParticipant(t *testing.T) {
	opts := testWeeklyOptions()
	opts.Participants = append(opts.Participants, "Sam")
	f, err := WeeklyWorkbook(testTransactions(), opts)
	require.NoError(t, err)
	defer f.Close()

	formula, err := f.GetCellFormula(TransactionsSheet, "I5")
	require.NoError(t, err)
	assert.Equal(t, `SUMIFS(C2:C4,F2:F4,"Sam")+SUMIFS(C2:C4,F2:F4,"Both")/3`, formula)

	styleID, err := f.GetCellStyle(TransactionsSheet, "H5")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.Equal(t, []string{"FFFF00"}, style.Fill.Color)
}

func TestWeeklyWorkbookRoundTrip(t *testing.T) {
	f, err := WeeklyWorkbook(testTransactions(), testWeeklyOptions())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "03-09 Feb Week 2 - 2025.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	opened, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer opened.Close()

	block, err := sheet.ReadBlock(opened, TransactionsSheet, 9, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, block.MaxRow)
}

func TestSummaryFormulaWithoutShared(t *testing.T) {
	assert.Equal(t, `SUMIFS(C2:C9,F2:F9,"Jack")`, SummaryFormula("Jack", "", 2, 9))
	assert.Equal(t, `SUMIFS(C2:C9,F2:F9,"A ""B""")`, SummaryFormula(`A "B"`, "", 1, 9))
}
