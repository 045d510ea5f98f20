package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
)

func testLabeler() Labeler {
	return Labeler{
		Unlabeled: []string{"Dining", "Travel"},
		Participants: map[string]string{
			"Recreation":            "Jack",
			"Professional Services": "Jack",
		},
		Shared: "Both",
	}
}

func TestLabelerLabel(t *testing.T) {
	l := testLabeler()
	tests := []struct {
		category string
		want     string
	}{
		{"", ""},
		{"Dining", ""},
		{"Travel", ""},
		{"Recreation", "Jack"},
		{"Professional Services", "Jack"},
		{"Groceries", "Both"},
		{"dining", "Both"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Label(tt.category), tt.category)
	}
}

func TestLabelerApplyKeepsExisting(t *testing.T) {
	txs := []models.Transaction{
		{BankCategory: "Groceries"},
		{BankCategory: "Groceries", Label: "Ruby"},
		{BankCategory: "Dining"},
	}
	testLabeler().Apply(txs)
	assert.Equal(t, "Both", txs[0].Label)
	assert.Equal(t, "Ruby", txs[1].Label)
	assert.Empty(t, txs[2].Label)
}

func TestCategorizer(t *testing.T) {
	c := Categorizer{Rules: DefaultBucketRules()}
	tests := []struct {
		description string
		want        string
	}{
		{"Direct Credit 617702 PAYPAL AUSTRALIA 1234", "DataAnnotation"},
		{"PAYPAL AUSTRALIA Direct Credit 617702", ""},
		{"Direct Credit 617702 ACME", ""},
		{"ACME Salary March", "Salary"},
		{"Jack weekly spend", "Salary"},
		{"Solar Loan repayment", "Salary"},
		{"Transfer to xx9545 savings", "Salary"},
		{"Coffee", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Category(tt.description), tt.description)
	}
}

func TestCategorizerFirstMatchWins(t *testing.T) {
	c := Categorizer{Rules: []Rule{
		{Contains: []string{"Salary"}, Category: "Income"},
		{Contains: []string{"Salary", "Bonus"}, Category: "Bonus"},
	}}
	assert.Equal(t, "Income", c.Category("Salary Bonus"))
}

func TestEmptyRuleNeverMatches(t *testing.T) {
	assert.False(t, Rule{Category: "Anything"}.Matches("text"))
}
