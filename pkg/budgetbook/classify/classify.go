// Package classify assigns labels and ledger categories to transactions from
// configurable lookup tables.
package classify

import (
	"strings"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
)

// Labeler maps a bank-supplied category to a participant or shared label.
type Labeler struct {
	// Unlabeled lists bank categories that never get a label.
	Unlabeled []string
	// Participants maps a bank category to the participant who owns it.
	Participants map[string]string
	// Shared labels every other non-empty bank category.
	Shared string
}

// Label returns the label for bankCategory, or "" for none.
func (l Labeler) Label(bankCategory string) string {
	if bankCategory == "" {
		return ""
	}
	for _, c := range l.Unlabeled {
		if c == bankCategory {
			return ""
		}
	}
	if p, ok := l.Participants[bankCategory]; ok {
		return p
	}
	return l.Shared
}

// Apply fills in Label from the bank category for every transaction. Labels
// that are already set are kept.
func (l Labeler) Apply(txs []models.Transaction) {
	for i := range txs {
		if txs[i].Label == "" {
			txs[i].Label = l.Label(txs[i].BankCategory)
		}
	}
}

// Rule assigns Category to descriptions containing every Contains string and
// starting with Prefix, when set.
type Rule struct {
	Prefix   string   `mapstructure:"prefix"`
	Contains []string `mapstructure:"contains"`
	Category string   `mapstructure:"category"`
}

// Matches reports whether description satisfies the rule.
func (r Rule) Matches(description string) bool {
	if r.Prefix == "" && len(r.Contains) == 0 {
		return false
	}
	if r.Prefix != "" && !strings.HasPrefix(description, r.Prefix) {
		return false
	}
	for _, s := range r.Contains {
		if !strings.Contains(description, s) {
			return false
		}
	}
	return true
}

// Categorizer applies ordered rules; the first match wins.
type Categorizer struct {
	Rules []Rule
}

// DefaultBucketRules are the debit account rules used by the bucket ledger.
func DefaultBucketRules() []Rule {
	return []Rule{
		{Prefix: "Direct Credit 617702", Contains: []string{"PAYPAL AUSTRALIA"}, Category: "DataAnnotation"},
		{Contains: []string{"Salary"}, Category: "Salary"},
		{Contains: []string{"Jack weekly spend"}, Category: "Salary"},
		{Contains: []string{"Solar Loan"}, Category: "Salary"},
		{Contains: []string{"Transfer to xx9545"}, Category: "Salary"},
	}
}

// Category returns the category of the first matching rule, or "".
func (c Categorizer) Category(description string) string {
	for _, r := range c.Rules {
		if r.Matches(description) {
			return r.Category
		}
	}
	return ""
}
