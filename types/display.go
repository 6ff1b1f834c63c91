package types

// Display is a fixed-position character display (16 columns x 2 rows).
// Coordinates are 0-indexed.
type Display interface {
	Clear()
	WriteTextAt(col, row uint8, text string)
	// WriteIntAt writes value zero-padded to exactly width digits.
	WriteIntAt(col, row uint8, value int, width int)
}

const (
	DisplayCols = 16
	DisplayRows = 2
)
