package carryforward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRewriteExternalRefs(t *testing.T) {
	const book = "2025 Monthly Spend.xlsx"
	tests := []struct {
		name    string
		formula string
		want    string
		count   int
	}{
		{
			"quoted reference",
			"SUM('[2025 Monthly Spend.xlsx]February'!C2:C50)",
			"SUM('[2025 Monthly Spend.xlsx]March'!C2:C50)",
			1,
		},
		{
			"unquoted reference from another workbook",
			"[Old.xlsx]January!D4*2",
			"'[2025 Monthly Spend.xlsx]March'!D4*2",
			1,
		},
		{
			"two references",
			"'[a.xlsx]May'!A1+[b.xlsx]June!B2",
			"'[2025 Monthly Spend.xlsx]March'!A1+'[2025 Monthly Spend.xlsx]March'!B2",
			2,
		},
		{
			"month as substring",
			"[Old.xlsx]Mayhem!A1",
			"[Old.xlsx]Mayhem!A1",
			0,
		},
		{
			"sheet name continues after month",
			"'[Old.xlsx]June 2025'!A1",
			"'[Old.xlsx]June 2025'!A1",
			0,
		},
		{
			"month without workbook",
			`SUMIFS(March!C:C,March!F:F,"Jack")`,
			`SUMIFS(March!C:C,March!F:F,"Jack")`,
			0,
		},
		{
			"path prefix inside quotes",
			"'C:\\Budget\\[Old.xlsx]April'!A1",
			"'C:\\Budget\\[2025 Monthly Spend.xlsx]March'!A1",
			1,
		},
		{
			"already current",
			"'[2025 Monthly Spend.xlsx]March'!A1",
			"'[2025 Monthly Spend.xlsx]March'!A1",
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := RewriteExternalRefs(tt.formula, book, time.March)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestRewriteExternalRefsIdempotent(t *testing.T) {
	formula := "[Old.xlsx]January!D4+'[x]February'!A1"
	once, _ := RewriteExternalRefs(formula, "Book.xlsx", time.July)
	twice, n := RewriteExternalRefs(once, "Book.xlsx", time.July)
	assert.Equal(t, once, twice)
	assert.Zero(t, n)
}
