package sheet

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
	"github.com/xuri/excelize/v2"
)

// labelTriggerPattern matches a single-cell comparison against a text literal,
// such as $F2="Ruby".
var labelTriggerPattern = regexp.MustCompile(`^\s*=?\s*(\$?[A-Za-z]{1,3}\$?[0-9]+)\s*=\s*"((?:[^"]|"")*)"\s*$`)

// SourceRule is a formula-triggered highlight read from a sheet.
type SourceRule struct {
	// Sqref is the range the rule applied to.
	Sqref string
	// Type is the conditional format type; only "formula" can be remapped.
	Type string
	// Criteria is the trigger formula.
	Criteria string
}

// MappedRule is a rule re-anchored onto a destination range.
type MappedRule struct {
	Label    string
	Criteria string
	Color    string
}

// RemapResult lists what happened to each source rule.
type RemapResult struct {
	Rules     []MappedRule
	Dropped   []string
	Defaulted []string
}

// ParseLabelTrigger extracts the tested cell and label literal from a trigger
// formula. ok is false if the formula is not a plain label comparison.
func ParseLabelTrigger(criteria string) (cell, label string, ok bool) {
	m := labelTriggerPattern.FindStringSubmatch(criteria)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.ReplaceAll(m[2], `""`, `"`), true
}

// LabelTrigger builds the trigger formula highlighting rows whose column
// value equals label, anchored at firstRow.
func LabelTrigger(column string, firstRow int, label string) string {
	return fmt.Sprintf(`$%s%d="%s"`, strings.ToUpper(column), firstRow, strings.ReplaceAll(label, `"`, `""`))
}

// RemapRules re-expresses source rules for a destination range whose top-left
// corner is (dstRow, dstCol). Colors come from palette keyed by the label in
// each trigger; unmapped labels get the palette default. Rules whose trigger
// is not a label comparison are dropped.
func RemapRules(rules []SourceRule, dstRow, dstCol int, palette models.LabelPalette) RemapResult {
	var result RemapResult
	seen := make(map[string]bool)

	for _, rule := range rules {
		if rule.Type != "formula" {
			result.Dropped = append(result.Dropped, rule.Criteria)
			continue
		}
		_, label, ok := ParseLabelTrigger(rule.Criteria)
		if !ok {
			result.Dropped = append(result.Dropped, rule.Criteria)
			continue
		}

		criteria := strings.TrimPrefix(strings.TrimSpace(rule.Criteria), "=")
		if srcRow, srcCol, err := SqrefTopLeft(rule.Sqref); err == nil {
			shifted, err := Shift(criteria, dstRow-srcRow, dstCol-srcCol)
			if err != nil {
				result.Dropped = append(result.Dropped, rule.Criteria)
				continue
			}
			criteria = shifted
		}
		if seen[criteria] {
			continue
		}
		seen[criteria] = true

		color, mapped := palette.Color(label)
		if !mapped {
			result.Defaulted = append(result.Defaulted, label)
		}
		result.Rules = append(result.Rules, MappedRule{Label: label, Criteria: criteria, Color: color})
	}
	return result
}

// ReadSourceRules returns a sheet's conditional formats in a stable order.
func ReadSourceRules(f *excelize.File, sheetName string) ([]SourceRule, error) {
	formats, err := f.GetConditionalFormats(sheetName)
	if err != nil {
		return nil, err
	}
	sqrefs := make([]string, 0, len(formats))
	for sqref := range formats {
		sqrefs = append(sqrefs, sqref)
	}
	sort.Strings(sqrefs)

	var rules []SourceRule
	for _, sqref := range sqrefs {
		for _, opt := range formats[sqref] {
			rules = append(rules, SourceRule{Sqref: sqref, Type: opt.Type, Criteria: opt.Criteria})
		}
	}
	return rules, nil
}

// ApplyRules writes mapped rules as fill highlights over dstRange.
func ApplyRules(f *excelize.File, sheetName, dstRange string, rules []MappedRule) error {
	if len(rules) == 0 {
		return nil
	}
	opts := make([]excelize.ConditionalFormatOptions, 0, len(rules))
	for _, rule := range rules {
		format, err := f.NewConditionalStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{rule.Color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		opts = append(opts, excelize.ConditionalFormatOptions{
			Type:     "formula",
			Criteria: rule.Criteria,
			Format:   &format,
		})
	}
	return f.SetConditionalFormat(sheetName, dstRange, opts)
}

// RemapConditionalFormats copies the label highlights of srcSheet onto
// dstRange of dstSheet, logging every dropped or defaulted rule.
func RemapConditionalFormats(src *excelize.File, srcSheet string, dst *excelize.File, dstSheet, dstRange string, palette models.LabelPalette, logger *slog.Logger) (RemapResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rules, err := ReadSourceRules(src, srcSheet)
	if err != nil {
		return RemapResult{}, err
	}
	dstRow, dstCol, err := SqrefTopLeft(dstRange)
	if err != nil {
		return RemapResult{}, err
	}

	result := RemapRules(rules, dstRow, dstCol, palette)
	for _, criteria := range result.Dropped {
		logger.Warn("Dropped conditional format without a label trigger",
			"sheet", srcSheet, "criteria", criteria)
	}
	for _, label := range result.Defaulted {
		logger.Warn("No color configured for label, using default",
			"sheet", dstSheet, "label", label, "color", palette.Default)
	}

	if err := ApplyRules(dst, dstSheet, dstRange, result.Rules); err != nil {
		return result, err
	}
	return result, nil
}

// LabelRules builds one highlight per label for a range whose label values
// live in labelColumn.
func LabelRules(labels []string, labelColumn string, firstRow int, palette models.LabelPalette) []MappedRule {
	rules := make([]MappedRule, 0, len(labels))
	for _, label := range labels {
		color, _ := palette.Color(label)
		rules = append(rules, MappedRule{
			Label:    label,
			Criteria: LabelTrigger(labelColumn, firstRow, label),
			Color:    color,
		})
	}
	return rules
}
