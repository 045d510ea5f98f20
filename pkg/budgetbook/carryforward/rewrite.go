package carryforward

import (
	"regexp"
	"strings"
	"time"
)

// externalRefPattern matches an external workbook reference followed by a
// full month-name sheet, with the optional quotes around it.
var externalRefPattern = regexp.MustCompile(
	`('?)\[([^\]]*)\](January|February|March|April|May|June|July|August|September|October|November|December)\b('?)`)

// RewriteExternalRefs points every [<workbook>]<Month> reference in formula at
// '[workbook]<month>'. Month names are matched as whole words, and a quoted
// sheet name that merely starts with a month is left alone. It returns the
// new formula and how many references were rewritten.
func RewriteExternalRefs(formula, workbook string, month time.Month) (string, int) {
	matches := externalRefPattern.FindAllStringSubmatchIndex(formula, -1)
	if len(matches) == 0 {
		return formula, 0
	}

	var b strings.Builder
	last, rewritten := 0, 0
	for _, m := range matches {
		openQuote := m[3] > m[2]
		closeQuote := m[9] > m[8]
		start, end := m[0], m[1]

		var ref string
		switch {
		case openQuote && !closeQuote:
			// Sheet name continues past the month, e.g. '[Book]June 2025'.
			continue
		case !openQuote && closeQuote:
			// Quote opened earlier, before a path prefix.
			ref = "[" + workbook + "]" + month.String() + "'"
		default:
			ref = "'[" + workbook + "]" + month.String() + "'"
		}

		b.WriteString(formula[last:start])
		b.WriteString(ref)
		last = end
		if formula[start:end] != ref {
			rewritten++
		}
	}
	b.WriteString(formula[last:])
	return b.String(), rewritten
}
