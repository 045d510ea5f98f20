package sheet

import (
	"fmt"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/xuri/excelize/v2"
)

// StyleCopier copies cell styles from a source workbook into a destination
// workbook. Styles are copied by value: the destination receives its own
// style record, so later changes there never reach the source.
type StyleCopier struct {
	src   *excelize.File
	dst   *excelize.File
	cache map[int]int
}

// NewStyleCopier creates a StyleCopier for the given pair of workbooks.
func NewStyleCopier(src, dst *excelize.File) *StyleCopier {
	return &StyleCopier{src: src, dst: dst, cache: make(map[int]int)}
}

// Copy returns the destination style ID equivalent to srcStyleID.
func (c *StyleCopier) Copy(srcStyleID int) (int, error) {
	if srcStyleID == 0 {
		return 0, nil
	}
	if id, ok := c.cache[srcStyleID]; ok {
		return id, nil
	}
	style, err := c.src.GetStyle(srcStyleID)
	if err != nil {
		return 0, err
	}
	id, err := c.dst.NewStyle(style)
	if err != nil {
		return 0, err
	}
	c.cache[srcStyleID] = id
	return id, nil
}

// Apply sets the copy of srcStyleID on a destination cell.
func (c *StyleCopier) Apply(dstSheet, cell string, srcStyleID int) error {
	if srcStyleID == 0 {
		return nil
	}
	id, err := c.Copy(srcStyleID)
	if err != nil {
		return budgetbook.NewCellError(dstSheet, cell, "style", err)
	}
	return c.dst.SetCellStyle(dstSheet, cell, cell, id)
}

// excelize reports this width for columns without one of their own.
const defaultColWidth = 9.140625

// CopyColumnWidths copies the tracked column widths that srcSheet sets
// explicitly to dstSheet and then applies the layout's pinned widths.
func CopyColumnWidths(src *excelize.File, srcSheet string, dst *excelize.File, dstSheet string, layout budgetbook.Layout) error {
	base := defaultColWidth
	props, err := src.GetSheetProps(srcSheet)
	if err != nil {
		return err
	}
	if props.DefaultColWidth != nil && *props.DefaultColWidth > 0 {
		base = *props.DefaultColWidth
	}
	for _, col := range layout.TrackedColumns() {
		width, err := src.GetColWidth(srcSheet, col)
		if err != nil {
			return err
		}
		if width > 0 && width != base {
			if err := dst.SetColWidth(dstSheet, col, col, width); err != nil {
				return err
			}
		}
	}
	for col, width := range layout.PinnedWidths {
		if err := dst.SetColWidth(dstSheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// SetRowBold sets or clears bold on columns 1..maxCol of a row, keeping every
// other style attribute. It reports how many cells changed.
func SetRowBold(f *excelize.File, sheetName string, row, maxCol int, bold bool) (int, error) {
	changed := 0
	for col := 1; col <= maxCol; col++ {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return changed, err
		}
		ok, err := setBold(f, sheetName, cell, bold)
		if err != nil {
			return changed, budgetbook.NewCellError(sheetName, cell, "style", err)
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

func setBold(f *excelize.File, sheetName, cell string, bold bool) (bool, error) {
	styleID, err := f.GetCellStyle(sheetName, cell)
	if err != nil {
		return false, err
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	if style.Font == nil {
		if !bold {
			return false, nil
		}
		style.Font = &excelize.Font{}
	}
	if style.Font.Bold == bold {
		return false, nil
	}
	style.Font.Bold = bold
	id, err := f.NewStyle(style)
	if err != nil {
		return false, err
	}
	return true, f.SetCellStyle(sheetName, cell, cell, id)
}

// IsBold reports whether a cell's font is bold.
func IsBold(f *excelize.File, sheetName, cell string) (bool, error) {
	styleID, err := f.GetCellStyle(sheetName, cell)
	if err != nil {
		return false, err
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	return style.Font != nil && style.Font.Bold, nil
}

// CopyFillAndBorder copies fill and border from one cell to another within a
// sheet, leaving the target's font, number format, and alignment intact.
func CopyFillAndBorder(f *excelize.File, sheetName, from, to string) error {
	fromID, err := f.GetCellStyle(sheetName, from)
	if err != nil {
		return err
	}
	fromStyle, err := f.GetStyle(fromID)
	if err != nil {
		return err
	}
	toID, err := f.GetCellStyle(sheetName, to)
	if err != nil {
		return err
	}
	toStyle, err := f.GetStyle(toID)
	if err != nil {
		return err
	}

	changed := false
	if fromStyle.Fill.Type != "" && len(fromStyle.Fill.Color) > 0 {
		toStyle.Fill = fromStyle.Fill
		changed = true
	}
	if len(fromStyle.Border) > 0 {
		toStyle.Border = append([]excelize.Border(nil), fromStyle.Border...)
		changed = true
	}
	if !changed {
		return nil
	}
	id, err := f.NewStyle(toStyle)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, to, to, id)
}

// Named style identifiers shared by the ledger writers.
const (
	DateStyle             = "date_style"
	CurrencyStyle         = "currency_style"
	CurrencyNegativeStyle = "currency_negative_style"
	TextStyle             = "text_style"
)

// NamedStyles is a per-workbook registry of styles addressed by name.
// Registering a name that already exists is a no-op.
type NamedStyles struct {
	f   *excelize.File
	ids map[string]int
}

// NewNamedStyles creates an empty registry bound to f.
func NewNamedStyles(f *excelize.File) *NamedStyles {
	return &NamedStyles{f: f, ids: make(map[string]int)}
}

// Register adds style under name unless the name is already registered, and
// returns the style ID in either case.
func (n *NamedStyles) Register(name string, style *excelize.Style) (int, error) {
	if id, ok := n.ids[name]; ok {
		return id, nil
	}
	id, err := n.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("register style %q: %w", name, err)
	}
	n.ids[name] = id
	return id, nil
}

// ID returns the style ID registered under name.
func (n *NamedStyles) ID(name string) (int, bool) {
	id, ok := n.ids[name]
	return id, ok
}

// Apply sets the named style on a cell.
func (n *NamedStyles) Apply(sheetName, cell, name string) error {
	id, ok := n.ids[name]
	if !ok {
		return fmt.Errorf("style %q is not registered", name)
	}
	return n.f.SetCellStyle(sheetName, cell, cell, id)
}

// RegisterLedgerStyles registers the date, currency, and text styles used by
// ledger rows.
func (n *NamedStyles) RegisterLedgerStyles() error {
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	dateFmt := "D/MM/YYYY"
	currencyFmt := `"$"#,##0.00_);("$"#,##0.00)`
	negativeFmt := `"$"#,##0.00_);[Red]("$"#,##0.00)`

	styles := []struct {
		name  string
		style *excelize.Style
	}{
		{DateStyle, &excelize.Style{CustomNumFmt: &dateFmt, Alignment: center}},
		{CurrencyStyle, &excelize.Style{CustomNumFmt: &currencyFmt, Alignment: center}},
		{CurrencyNegativeStyle, &excelize.Style{CustomNumFmt: &negativeFmt, Alignment: center}},
		{TextStyle, &excelize.Style{Alignment: center}},
	}
	for _, s := range styles {
		if _, err := n.Register(s.name, s.style); err != nil {
			return err
		}
	}
	return nil
}
