package models

// Block is a rectangular slice of a sheet read for copying.
type Block struct {
	// Sheet is the source sheet name.
	Sheet string
	// Rows contains every row from 1 to MaxRow, including blank ones.
	Rows []CellRow
	// MaxRow is the last row holding any value or formula.
	MaxRow int
	// MaxCol is the right-most column read.
	MaxCol int
}

// Empty reports whether the block holds no populated rows.
func (b Block) Empty() bool {
	return b.MaxRow == 0
}
