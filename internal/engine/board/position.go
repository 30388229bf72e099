package board

import "fmt"

// Position addresses a tile. Rows and columns are 1-indexed.
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"column" yaml:"column"`
}

// P is a convenience constructor for Position.
func P(row, col int) Position {
	return Position{Row: row, Col: col}
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns the position offset by (dr, dc).
func (p Position) Add(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}
