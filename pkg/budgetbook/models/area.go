package models

// Area represents cell coordinate bounds of a range.
type Area struct {
	// R1 is the start row (1-based).
	R1 int
	// C1 is the start column (1-based).
	C1 int
	// R2 is the end row (1-based, inclusive).
	R2 int
	// C2 is the end column (1-based, inclusive).
	C2 int
}

// Contains reports whether the cell at (row, col) lies inside the area.
func (a Area) Contains(row, col int) bool {
	return row >= a.R1 && row <= a.R2 && col >= a.C1 && col <= a.C2
}
