package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a bank or card transaction as written to a workbook.
type Transaction struct {
	// Date is the posting date.
	Date time.Time
	// Description is the payee or free-text description.
	Description string
	// Amount is negative for debits.
	Amount decimal.Decimal
	// BankCategory is the category title supplied by the data source.
	BankCategory string
	// Category is the ledger category assigned locally, if any.
	Category string
	// Label is the participant or shared label, if any.
	Label string
}
