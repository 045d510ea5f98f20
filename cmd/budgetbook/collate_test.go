package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/budgetbook-go/pkg/budgetbook/models"
)

func TestPrintSummary(t *testing.T) {
	summary := &models.RunSummary{}
	summary.Succeed("01-07 Feb Week 1 - 2025.xlsx")
	summary.Skip("notes.xlsx", "not a period file")
	summary.Fail("08-14 Feb Week 2 - 2025.xlsx", errors.New("corrupt package"))
	summary.Warn("label %q has no rule", "Sam")

	var out bytes.Buffer
	printSummary(&out, "Collation", summary)

	want := "Collation: 1 succeeded, 1 skipped, 1 failed\n" +
		"  skipped notes.xlsx: not a period file\n" +
		"  failed 08-14 Feb Week 2 - 2025.xlsx: corrupt package\n" +
		"  warning: label \"Sam\" has no rule\n"
	assert.Equal(t, want, out.String())
}

func TestPrintSummaryNil(t *testing.T) {
	var out bytes.Buffer
	printSummary(&out, "Collation", nil)
	assert.Empty(t, out.String())
}

func TestFailures(t *testing.T) {
	summary := &models.RunSummary{}
	summary.Succeed("a")
	summary.Skip("b", "missing")
	require.NoError(t, failures(summary))

	summary.Fail("c", errors.New("boom"))
	err := failures(summary)
	require.Error(t, err)
	assert.Equal(t, "1 of 3 units failed", err.Error())
}
