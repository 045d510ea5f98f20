package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/xuri/excelize/v2"
)

const (
	maxColumns = 16384
	maxRows    = 1048576
)

var (
	cellRefPattern  = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})(\$?)([0-9]+)`)
	colRangePattern = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3}):(\$?)([A-Za-z]{1,3})`)
	rowRangePattern = regexp.MustCompile(`^(\$?)([0-9]+):(\$?)([0-9]+)`)
)

// Translate rewrites formula as if it were moved from cell `from` to cell `to`.
// Relative references shift by the row and column distance, while any
// $-locked part of a reference stays fixed. String literals, quoted sheet
// names, and bracketed workbook names are never rewritten.
func Translate(formula, from, to string) (string, error) {
	fromCol, fromRow, err := excelize.CellNameToCoordinates(from)
	if err != nil {
		return formula, fmt.Errorf("%w: origin %q", budgetbook.ErrInvalidReference, from)
	}
	toCol, toRow, err := excelize.CellNameToCoordinates(to)
	if err != nil {
		return formula, fmt.Errorf("%w: destination %q", budgetbook.ErrInvalidReference, to)
	}
	return Shift(formula, toRow-fromRow, toCol-fromCol)
}

// Shift moves every relative reference in formula by dRow rows and dCol
// columns. On any unparseable or out-of-sheet reference the original formula
// is returned together with an error wrapping ErrInvalidReference.
func Shift(formula string, dRow, dCol int) (string, error) {
	if dRow == 0 && dCol == 0 {
		return formula, nil
	}
	var b strings.Builder
	b.Grow(len(formula) + 8)

	for i := 0; i < len(formula); {
		ch := formula[i]
		switch {
		case ch == '"':
			j := skipQuoted(formula, i, '"')
			b.WriteString(formula[i:j])
			i = j
			continue
		case ch == '\'':
			j := skipQuoted(formula, i, '\'')
			b.WriteString(formula[i:j])
			i = j
			continue
		case ch == '[':
			j := strings.IndexByte(formula[i:], ']')
			if j < 0 {
				return formula, fmt.Errorf("%w: unterminated bracket in %q", budgetbook.ErrInvalidReference, formula)
			}
			b.WriteString(formula[i : i+j+1])
			i += j + 1
			continue
		}

		if !atBoundary(formula, i) {
			b.WriteByte(ch)
			i++
			continue
		}

		rest := formula[i:]
		if m := colRangePattern.FindStringSubmatch(rest); m != nil && !identTail(rest, len(m[0])) {
			out, err := shiftColumns(m, dCol)
			if err != nil {
				return formula, err
			}
			b.WriteString(out)
			i += len(m[0])
			continue
		}
		if m := cellRefPattern.FindStringSubmatch(rest); m != nil {
			if identTail(rest, len(m[0])) || followedBy(rest, len(m[0]), '(', '!') {
				j := i + identLen(rest)
				b.WriteString(formula[i:j])
				i = j
				continue
			}
			out, err := shiftCell(m, dRow, dCol)
			if err != nil {
				return formula, err
			}
			b.WriteString(out)
			i += len(m[0])
			continue
		}
		if m := rowRangePattern.FindStringSubmatch(rest); m != nil && !identTail(rest, len(m[0])) && !followedBy(rest, len(m[0]), '.') {
			out, err := shiftRows(m, dRow)
			if err != nil {
				return formula, err
			}
			b.WriteString(out)
			i += len(m[0])
			continue
		}

		j := i + max(identLen(rest), 1)
		b.WriteString(formula[i:j])
		i = j
	}
	return b.String(), nil
}

// ShiftRange moves a plain range such as an array-formula anchor or a
// conditional-format sqref. Dollar signs carry no meaning there and are dropped.
func ShiftRange(ref string, dRow, dCol int) (string, error) {
	return Shift(strings.ReplaceAll(ref, "$", ""), dRow, dCol)
}

func shiftCell(m []string, dRow, dCol int) (string, error) {
	colAbs, colName, rowAbs, rowText := m[1], strings.ToUpper(m[2]), m[3], m[4]
	col, err := excelize.ColumnNameToNumber(colName)
	if err != nil || col > maxColumns {
		return "", fmt.Errorf("%w: column %q", budgetbook.ErrInvalidReference, m[2])
	}
	row, err := strconv.Atoi(rowText)
	if err != nil || row < 1 || row > maxRows {
		return "", fmt.Errorf("%w: row %q", budgetbook.ErrInvalidReference, rowText)
	}
	if colAbs == "" {
		col += dCol
	}
	if rowAbs == "" {
		row += dRow
	}
	if col < 1 || col > maxColumns || row < 1 || row > maxRows {
		return "", fmt.Errorf("%w: %s shifted outside the sheet", budgetbook.ErrInvalidReference, m[0])
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "", fmt.Errorf("%w: %v", budgetbook.ErrInvalidReference, err)
	}
	return colAbs + name + rowAbs + strconv.Itoa(row), nil
}

func shiftColumns(m []string, dCol int) (string, error) {
	left, err := shiftColumn(m[1], m[2], dCol)
	if err != nil {
		return "", err
	}
	right, err := shiftColumn(m[3], m[4], dCol)
	if err != nil {
		return "", err
	}
	return left + ":" + right, nil
}

func shiftColumn(abs, name string, dCol int) (string, error) {
	col, err := excelize.ColumnNameToNumber(strings.ToUpper(name))
	if err != nil || col > maxColumns {
		return "", fmt.Errorf("%w: column %q", budgetbook.ErrInvalidReference, name)
	}
	if abs == "" {
		col += dCol
	}
	if col < 1 || col > maxColumns {
		return "", fmt.Errorf("%w: column %s shifted outside the sheet", budgetbook.ErrInvalidReference, name)
	}
	out, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "", fmt.Errorf("%w: %v", budgetbook.ErrInvalidReference, err)
	}
	return abs + out, nil
}

func shiftRows(m []string, dRow int) (string, error) {
	left, err := shiftRow(m[1], m[2], dRow)
	if err != nil {
		return "", err
	}
	right, err := shiftRow(m[3], m[4], dRow)
	if err != nil {
		return "", err
	}
	return left + ":" + right, nil
}

func shiftRow(abs, text string, dRow int) (string, error) {
	row, err := strconv.Atoi(text)
	if err != nil || row < 1 || row > maxRows {
		return "", fmt.Errorf("%w: row %q", budgetbook.ErrInvalidReference, text)
	}
	if abs == "" {
		row += dRow
	}
	if row < 1 || row > maxRows {
		return "", fmt.Errorf("%w: row %s shifted outside the sheet", budgetbook.ErrInvalidReference, text)
	}
	return abs + strconv.Itoa(row), nil
}

// skipQuoted returns the index just past the quoted run starting at i.
// A doubled quote character is an escaped quote.
func skipQuoted(s string, i int, q byte) int {
	j := i + 1
	for j < len(s) {
		if s[j] == q {
			if j+1 < len(s) && s[j+1] == q {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return len(s)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' ||
		(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func atBoundary(s string, i int) bool {
	return i == 0 || !isIdentByte(s[i-1])
}

// identTail reports whether the match of length n runs into more identifier text.
func identTail(s string, n int) bool {
	return n < len(s) && isIdentByte(s[n]) && s[n] != '$'
}

func followedBy(s string, n int, chars ...byte) bool {
	if n >= len(s) {
		return false
	}
	for _, c := range chars {
		if s[n] == c {
			return true
		}
	}
	return false
}

func identLen(s string) int {
	n := 0
	for n < len(s) && isIdentByte(s[n]) {
		n++
	}
	return n
}
