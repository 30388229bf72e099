package clearing

import "github.com/tetrix-game/tetrix/internal/engine/board"

// PatternSize is the side of the square window the combo pattern spans.
const PatternSize = 4

// Pattern locates a combo pattern on the board.
type Pattern struct {
	Row        int  // first row of the window
	Col        int  // first column of the window
	Ascending  bool // diagonal runs bottom-left to top-right
	Descending bool // diagonal runs top-left to bottom-right
}

// FindComboPattern looks for four consecutive rows and four consecutive
// columns whose tiles are all filled except for one diagonal of the 4×4
// block where they cross, and that diagonal must be entirely empty.
// It reports the first match in row-major window order.
func FindComboPattern(b *board.Board) (Pattern, bool) {
	n := b.Size()
	for row := 1; row <= n-PatternSize+1; row++ {
		for col := 1; col <= n-PatternSize+1; col++ {
			if matchesDiagonal(b, row, col, false) {
				return Pattern{Row: row, Col: col, Descending: true}, true
			}
			if matchesDiagonal(b, row, col, true) {
				return Pattern{Row: row, Col: col, Ascending: true}, true
			}
		}
	}
	return Pattern{}, false
}

// HasComboPattern reports whether FindComboPattern would match.
func HasComboPattern(b *board.Board) bool {
	_, ok := FindComboPattern(b)
	return ok
}

// onDiagonal reports whether (r, c), relative to the window origin, is on
// the chosen diagonal.
func onDiagonal(r, c int, ascending bool) bool {
	if ascending {
		return r+c == PatternSize-1
	}
	return r == c
}

func matchesDiagonal(b *board.Board, row, col int, ascending bool) bool {
	n := b.Size()
	check := func(p board.Position) bool {
		r, c := p.Row-row, p.Col-col
		inBlock := r >= 0 && r < PatternSize && c >= 0 && c < PatternSize
		if inBlock && onDiagonal(r, c, ascending) {
			return !b.IsFilled(p)
		}
		return b.IsFilled(p)
	}

	for r := row; r < row+PatternSize; r++ {
		for c := 1; c <= n; c++ {
			if !check(board.P(r, c)) {
				return false
			}
		}
	}
	for c := col; c < col+PatternSize; c++ {
		for r := 1; r <= n; r++ {
			if !check(board.P(r, c)) {
				return false
			}
		}
	}
	return true
}
