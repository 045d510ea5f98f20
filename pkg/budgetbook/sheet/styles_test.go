package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/xuri/excelize/v2"
)

func TestStyleCopierIsValueCopy(t *testing.T) {
	src := excelize.NewFile()
	defer src.Close()
	dst := excelize.NewFile()
	defer dst.Close()

	srcStyle, err := src.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "C00000"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFFF00"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	require.NoError(t, err)
	require.NoError(t, src.SetCellStyle("Sheet1", "A1", "A1", srcStyle))

	copier := NewStyleCopier(src, dst)
	require.NoError(t, copier.Apply("Sheet1", "B2", srcStyle))

	bold, err := IsBold(dst, "Sheet1", "B2")
	require.NoError(t, err)
	assert.True(t, bold)

	// Clearing bold on the destination leaves the source alone.
	_, err = SetRowBold(dst, "Sheet1", 2, 2, false)
	require.NoError(t, err)

	bold, err = IsBold(dst, "Sheet1", "B2")
	require.NoError(t, err)
	assert.False(t, bold)

	bold, err = IsBold(src, "Sheet1", "A1")
	require.NoError(t, err)
	assert.True(t, bold)

	dstStyleID, err := dst.GetCellStyle("Sheet1", "B2")
	require.NoError(t, err)
	dstStyle, err := dst.GetStyle(dstStyleID)
	require.NoError(t, err)
	require.NotNil(t, dstStyle.Alignment)
	assert.Equal(t, "center", dstStyle.Alignment.Horizontal)
}

func TestSetRowBoldIdempotent(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A3", "x"))

	changed, err := SetRowBold(f, "Sheet1", 3, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 4, changed)

	changed, err = SetRowBold(f, "Sheet1", 3, 4, true)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestCopyColumnWidths(t *testing.T) {
	src := excelize.NewFile()
	defer src.Close()
	dst := excelize.NewFile()
	defer dst.Close()

	require.NoError(t, src.SetColWidth("Sheet1", "B", "B", 40))
	require.NoError(t, src.SetColWidth("Sheet1", "E", "E", 8))

	require.NoError(t, CopyColumnWidths(src, "Sheet1", dst, "Sheet1", budgetbook.DefaultLayout()))

	width, err := dst.GetColWidth("Sheet1", "B")
	require.NoError(t, err)
	assert.InDelta(t, 40, width, 0.01)

	width, err = dst.GetColWidth("Sheet1", "E")
	require.NoError(t, err)
	assert.InDelta(t, 24, width, 0.01)
}

func TestCopyColumnWidthsSkipsUnsetColumns(t *testing.T) {
	src := excelize.NewFile()
	defer src.Close()
	dst := excelize.NewFile()
	defer dst.Close()

	require.NoError(t, dst.SetColWidth("Sheet1", "C", "C", 30))
	require.NoError(t, src.SetColWidth("Sheet1", "A", "A", 15))

	require.NoError(t, CopyColumnWidths(src, "Sheet1", dst, "Sheet1", budgetbook.DefaultLayout()))

	width, err := dst.GetColWidth("Sheet1", "C")
	require.NoError(t, err)
	assert.InDelta(t, 30, width, 0.01)

	width, err = dst.GetColWidth("Sheet1", "A")
	require.NoError(t, err)
	assert.InDelta(t, 15, width, 0.01)
}

func TestNamedStylesIdempotent(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	styles := NewNamedStyles(f)
	require.NoError(t, styles.RegisterLedgerStyles())
	first, ok := styles.ID(DateStyle)
	require.True(t, ok)

	require.NoError(t, styles.RegisterLedgerStyles())
	second, _ := styles.ID(DateStyle)
	assert.Equal(t, first, second)

	other, err := styles.Register(DateStyle, &excelize.Style{Font: &excelize.Font{Italic: true}})
	require.NoError(t, err)
	assert.Equal(t, first, other)

	require.NoError(t, styles.Apply("Sheet1", "A1", DateStyle))
	assert.Error(t, styles.Apply("Sheet1", "A1", "missing_style"))
}

func TestCopyFillAndBorder(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	above, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"5582AE"}, Pattern: 1},
		Border: []excelize.Border{{Type: "left", Color: "000000", Style: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A1", "A1", above))

	below, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A2", below))

	require.NoError(t, CopyFillAndBorder(f, "Sheet1", "A1", "A2"))

	id, err := f.GetCellStyle("Sheet1", "A2")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	assert.NotEmpty(t, style.Fill.Color)
	assert.NotEmpty(t, style.Border)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}
