package export

import (
	"unicode/utf8"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/xuri/excelize/v2"
)

const (
	// DebitSheet is the only sheet of the debit export.
	DebitSheet = "Debit Transactions"
	// Uncategorized replaces a missing bank category.
	Uncategorized = "Uncategorized"

	debitAmountFmt = `$#,##0.00;- $#,##0.00`
	negativeColor  = "C00000"
)

// DebitHeaders is the header row of the debit export.
var DebitHeaders = []string{"Date", "Description", "Amount", "Category"}

// DebitWorkbook lays out debit account transactions, filling every data cell
// with fill. Dates are written as ISO text. The caller must close the file.
func DebitWorkbook(txs []models.Transaction, fill string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), DebitSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeDebit(f, txs, fill); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeDebit(f *excelize.File, txs []models.Transaction, fill string) error {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      solidFill(headerColor),
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	headers := append([]string(nil), DebitHeaders...)
	if err := f.SetSheetRow(DebitSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(DebitSheet, "A1", "D1", header); err != nil {
		return err
	}

	base := func() *excelize.Style {
		s := &excelize.Style{Border: thinBorder(), Alignment: &excelize.Alignment{Horizontal: "center"}}
		if fill != "" {
			s.Fill = solidFill(fill)
		}
		return s
	}
	center, err := f.NewStyle(base())
	if err != nil {
		return err
	}
	leftStyle := base()
	leftStyle.Alignment = &excelize.Alignment{Horizontal: "left"}
	left, err := f.NewStyle(leftStyle)
	if err != nil {
		return err
	}
	numFmt := debitAmountFmt
	amountStyle := base()
	amountStyle.CustomNumFmt = &numFmt
	amount, err := f.NewStyle(amountStyle)
	if err != nil {
		return err
	}
	negativeStyle := base()
	negativeStyle.CustomNumFmt = &numFmt
	negativeStyle.Font = &excelize.Font{Color: negativeColor}
	negative, err := f.NewStyle(negativeStyle)
	if err != nil {
		return err
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for i, tx := range txs {
		row := i + 2
		category := tx.BankCategory
		if category == "" {
			category = Uncategorized
		}
		date := tx.Date.Format(isoDate)
		values := []interface{}{date, tx.Description, tx.Amount.InexactFloat64(), category}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(DebitSheet, cell, &values); err != nil {
			return err
		}

		amountID := amount
		shown := "$" + tx.Amount.StringFixed(2)
		if tx.Amount.IsNegative() {
			amountID = negative
			shown = "- $" + tx.Amount.Abs().StringFixed(2)
		}
		for col, id := range []int{center, left, amountID, center} {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellStyle(DebitSheet, cell, cell, id); err != nil {
				return err
			}
		}
		for col, s := range []string{date, tx.Description, shown, category} {
			widths[col] = max(widths[col], utf8.RuneCountInString(s))
		}
	}
	for col, w := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(DebitSheet, name, name, float64(w+2)); err != nil {
			return err
		}
	}
	return nil
}
