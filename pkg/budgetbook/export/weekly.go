// Package export writes transaction lists into freshly created workbooks:
// the weekly period files that collation later merges, and the yearly debit
// export read by the bucket ledger.
package export

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/sheet"
	"github.com/xuri/excelize/v2"
)

const (
	// TransactionsSheet is the only sheet of a weekly period file.
	TransactionsSheet = "Transactions"
	// TotalLabel heads the last row of the weekly summary table.
	TotalLabel = "Total Weekly Spend"

	headerColor = "FFFF00"
	labelColumn = "F"
)

// DefaultCategories is the drop-down list offered in the Category column.
var DefaultCategories = []string{
	"Home", "Entertainment", "Dining", "Personal Items", "Medical", "Vehicle", "Travel", "Other",
	"Savings", "Mortgage", "Bills", "Gifts", "Groceries", "Subscription",
}

// WeeklyOptions configures a weekly period workbook.
type WeeklyOptions struct {
	// Week is shown in the date header, as in "Date - Week 2".
	Week int
	// Participants each get a row in the summary table.
	Participants []string
	// Shared is the label whose spend is split evenly between participants.
	Shared string
	// Categories fills the Category drop-down. Nil means DefaultCategories.
	Categories []string
	// Palette colors label highlights and summary rows.
	Palette models.LabelPalette
}

// Labels returns the participants followed by the shared label.
func (o WeeklyOptions) Labels() []string {
	labels := append([]string(nil), o.Participants...)
	if o.Shared != "" {
		labels = append(labels, o.Shared)
	}
	return labels
}

// WeeklyHeaders returns the header row of a weekly period file.
func WeeklyHeaders(week int) []string {
	return []string{fmt.Sprintf("Date - Week %d", week), "Description", "Amount", "Category", "Bank Category", "Label"}
}

type weeklyStyles struct {
	header, date, text, left, amount, summary, summaryAmount int
}

// WeeklyWorkbook lays out txs as a weekly period workbook. The caller owns
// the returned file and must close it.
func WeeklyWorkbook(txs []models.Transaction, opts WeeklyOptions) (*excelize.File, error) {
	if opts.Categories == nil {
		opts.Categories = DefaultCategories
	}
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), TransactionsSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeWeekly(f, txs, opts); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeWeekly(f *excelize.File, txs []models.Transaction, opts WeeklyOptions) error {
	styles, err := newWeeklyStyles(f)
	if err != nil {
		return err
	}

	headers := WeeklyHeaders(opts.Week)
	if err := f.SetSheetRow(TransactionsSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(TransactionsSheet, "A1", "F1", styles.header); err != nil {
		return err
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	for i, tx := range txs {
		row := i + 2
		values := []interface{}{tx.Date, tx.Description, tx.Amount.InexactFloat64(), tx.Category, tx.BankCategory, tx.Label}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(TransactionsSheet, cell, &values); err != nil {
			return err
		}
		rowStyles := []int{styles.date, styles.left, styles.amount, styles.text, styles.text, styles.text}
		for col, id := range rowStyles {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellStyle(TransactionsSheet, cell, cell, id); err != nil {
				return err
			}
		}
		texts := []string{tx.Date.Format("01/02/2006"), tx.Description, tx.Amount.StringFixed(2), tx.Category, tx.BankCategory, tx.Label}
		for col, s := range texts {
			widths[col] = max(widths[col], utf8.RuneCountInString(s))
		}
	}
	for col, w := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(TransactionsSheet, name, name, float64(w+3)); err != nil {
			return err
		}
	}

	lastRow := max(len(txs)+1, 2)
	if err := addDropDowns(f, lastRow, opts); err != nil {
		return err
	}

	rules := sheet.LabelRules(opts.Labels(), labelColumn, 2, opts.Palette)
	highlight := sheet.FormatArea(models.Area{R1: 2, C1: 1, R2: lastRow, C2: len(headers)})
	if err := sheet.ApplyRules(f, TransactionsSheet, highlight, rules); err != nil {
		return fmt.Errorf("label highlights: %w", err)
	}

	return addSummaryTable(f, lastRow, len(headers)+2, opts, styles)
}

func addDropDowns(f *excelize.File, lastRow int, opts WeeklyOptions) error {
	lists := []struct {
		column string
		items  []string
	}{
		{"D", opts.Categories},
		{labelColumn, opts.Labels()},
	}
	for _, l := range lists {
		if len(l.items) == 0 {
			continue
		}
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s%d", l.column, l.column, lastRow)
		if err := dv.SetDropList(l.items); err != nil {
			return fmt.Errorf("drop-down for column %s: %w", l.column, err)
		}
		if err := f.AddDataValidation(TransactionsSheet, dv); err != nil {
			return err
		}
	}
	return nil
}

// SummaryFormula returns the amount owed by participant: their own spend plus
// an even share of the shared label's spend over rows 2..lastRow.
func SummaryFormula(participant, shared string, participants, lastRow int) string {
	amounts := fmt.Sprintf("C2:C%d", lastRow)
	labels := fmt.Sprintf("%s2:%s%d", labelColumn, labelColumn, lastRow)
	own := fmt.Sprintf(`SUMIFS(%s,%s,"%s")`, amounts, labels, quote(participant))
	if shared == "" || participants == 0 {
		return own
	}
	return fmt.Sprintf(`%s+SUMIFS(%s,%s,"%s")/%d`, own, amounts, labels, quote(shared), participants)
}

func quote(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// addSummaryTable writes one row per participant starting at row 3 of column
// col, followed by the weekly total.
func addSummaryTable(f *excelize.File, lastRow, col int, opts WeeklyOptions, styles weeklyStyles) error {
	nameCol, _ := excelize.ColumnNumberToName(col)
	amountCol, _ := excelize.ColumnNumberToName(col + 1)

	row := 3
	for _, p := range opts.Participants {
		color, _ := opts.Palette.Color(p)
		nameStyle, err := f.NewStyle(summaryStyle(color, false))
		if err != nil {
			return err
		}
		amountStyle, err := f.NewStyle(summaryStyle(color, true))
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s%d", nameCol, row)
		amount := fmt.Sprintf("%s%d", amountCol, row)
		if err := f.SetCellValue(TransactionsSheet, name, p); err != nil {
			return err
		}
		if err := f.SetCellFormula(TransactionsSheet, amount,
			SummaryFormula(p, opts.Shared, len(opts.Participants), lastRow)); err != nil {
			return err
		}
		if err := f.SetCellStyle(TransactionsSheet, name, name, nameStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(TransactionsSheet, amount, amount, amountStyle); err != nil {
			return err
		}
		row++
	}

	name := fmt.Sprintf("%s%d", nameCol, row)
	amount := fmt.Sprintf("%s%d", amountCol, row)
	if err := f.SetCellValue(TransactionsSheet, name, TotalLabel); err != nil {
		return err
	}
	total := fmt.Sprintf("SUM(%s3:%s%d)", amountCol, amountCol, max(row-1, 3))
	if err := f.SetCellFormula(TransactionsSheet, amount, total); err != nil {
		return err
	}
	if err := f.SetCellStyle(TransactionsSheet, name, name, styles.summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(TransactionsSheet, amount, amount, styles.summaryAmount); err != nil {
		return err
	}

	if err := f.SetColWidth(TransactionsSheet, nameCol, nameCol, 18.57); err != nil {
		return err
	}
	return f.SetColWidth(TransactionsSheet, amountCol, amountCol, 13.57)
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

func summaryStyle(color string, amount bool) *excelize.Style {
	style := &excelize.Style{
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}
	if color != "" {
		style.Fill = solidFill(color)
	}
	if amount {
		currency := `"$"#,##0.00`
		style.CustomNumFmt = &currency
	}
	return style
}

func newWeeklyStyles(f *excelize.File) (weeklyStyles, error) {
	named := sheet.NewNamedStyles(f)
	center := &excelize.Alignment{Horizontal: "center"}
	dateFmt := "MM/DD/YYYY"
	currency := `"$"#,##0.00`

	var s weeklyStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "000000"},
		Fill:      solidFill(headerColor),
		Border:    thinBorder(),
		Alignment: center,
	}); err != nil {
		return s, err
	}
	if s.date, err = named.Register(sheet.DateStyle, &excelize.Style{
		CustomNumFmt: &dateFmt, Border: thinBorder(), Alignment: center,
	}); err != nil {
		return s, err
	}
	if s.text, err = named.Register(sheet.TextStyle, &excelize.Style{
		Border: thinBorder(), Alignment: center,
	}); err != nil {
		return s, err
	}
	if s.amount, err = named.Register(sheet.CurrencyStyle, &excelize.Style{
		CustomNumFmt: &currency, Border: thinBorder(), Alignment: center,
	}); err != nil {
		return s, err
	}
	if s.left, err = f.NewStyle(&excelize.Style{Border: thinBorder()}); err != nil {
		return s, err
	}
	if s.summary, err = f.NewStyle(summaryStyle("", false)); err != nil {
		return s, err
	}
	if s.summaryAmount, err = f.NewStyle(summaryStyle("", true)); err != nil {
		return s, err
	}
	return s, nil
}
