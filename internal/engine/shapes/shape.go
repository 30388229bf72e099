// Package shapes provides placeable pieces, their catalog and the shape queue.
package shapes

import (
	"strings"

	"github.com/tetrix-game/tetrix/internal/engine/board"
)

// FrameSize is the side of the square frame every shape is drawn in.
const FrameSize = 4

// Offset is a cell position relative to a shape's anchor.
type Offset struct {
	DR int // rows down from the anchor
	DC int // columns right of the anchor
}

// Shape is a 4×4 frame of blocks. Only some cells are filled.
// Indexing is Shape[row][col], 0-based within the frame.
type Shape [FrameSize][FrameSize]board.Block

// FromPattern builds a shape from rows of text where any character other
// than '.' or ' ' is a filled cell of the given color. Rows and columns beyond
// the frame are ignored.
func FromPattern(color board.Color, rows ...string) Shape {
	var s Shape
	for r, line := range rows {
		if r >= FrameSize {
			break
		}
		for c, ch := range line {
			if c >= FrameSize {
				break
			}
			if ch != '.' && ch != ' ' {
				s[r][c] = board.FilledBlock(color)
			}
		}
	}
	return s
}

// Anchor returns the frame coordinates of the top-left corner of the
// bounding box of filled cells. ok is false for an empty shape.
func (s Shape) Anchor() (row, col int, ok bool) {
	row, col = FrameSize, FrameSize
	for r := range FrameSize {
		for c := range FrameSize {
			if !s[r][c].Filled {
				continue
			}
			ok = true
			row = min(row, r)
			col = min(col, c)
		}
	}
	if !ok {
		return 0, 0, false
	}
	return row, col, true
}

// Offsets returns the filled cells relative to the anchor, in row-major order.
func (s Shape) Offsets() []Offset {
	ar, ac, ok := s.Anchor()
	if !ok {
		return nil
	}
	offsets := make([]Offset, 0, FrameSize*FrameSize)
	for r := range FrameSize {
		for c := range FrameSize {
			if s[r][c].Filled {
				offsets = append(offsets, Offset{DR: r - ar, DC: c - ac})
			}
		}
	}
	return offsets
}

// CellCount returns the number of filled cells.
func (s Shape) CellCount() int {
	n := 0
	for r := range FrameSize {
		for c := range FrameSize {
			if s[r][c].Filled {
				n++
			}
		}
	}
	return n
}

// Bounds returns the height and width of the filled bounding box.
func (s Shape) Bounds() (h, w int) {
	for _, o := range s.Offsets() {
		h = max(h, o.DR+1)
		w = max(w, o.DC+1)
	}
	return h, w
}

// Color returns the color of the first filled cell, or the background
// color for an empty shape.
func (s Shape) Color() board.Color {
	for r := range FrameSize {
		for c := range FrameSize {
			if s[r][c].Filled {
				return s[r][c].Color
			}
		}
	}
	return board.ColorGrey
}

// WithColor returns a copy with every filled cell recolored.
func (s Shape) WithColor(color board.Color) Shape {
	for r := range FrameSize {
		for c := range FrameSize {
			if s[r][c].Filled {
				s[r][c].Color = color
			}
		}
	}
	return s
}

// Normalize shifts the filled cells so the anchor sits at the frame's corner.
func (s Shape) Normalize() Shape {
	ar, ac, ok := s.Anchor()
	if !ok || (ar == 0 && ac == 0) {
		return s
	}
	var out Shape
	for r := ar; r < FrameSize; r++ {
		for c := ac; c < FrameSize; c++ {
			out[r-ar][c-ac] = s[r][c]
		}
	}
	return out
}

// Rotate turns the shape a quarter turn inside its frame and normalizes it.
func (s Shape) Rotate(clockwise bool) Shape {
	var out Shape
	for r := range FrameSize {
		for c := range FrameSize {
			if clockwise {
				out[c][FrameSize-1-r] = s[r][c]
			} else {
				out[FrameSize-1-c][r] = s[r][c]
			}
		}
	}
	return out.Normalize()
}

// Pattern renders the shape as FrameSize rows using color characters,
// with '.' for empty cells.
func (s Shape) Pattern() []string {
	rows := make([]string, FrameSize)
	for r := range FrameSize {
		var sb strings.Builder
		for c := range FrameSize {
			if s[r][c].Filled {
				sb.WriteRune(s[r][c].Color.Char())
			} else {
				sb.WriteByte('.')
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

// ParsePattern is the inverse of Pattern. Unknown color characters decode
// to fallback.
func ParsePattern(rows []string, fallback board.Color) Shape {
	var s Shape
	for r, line := range rows {
		if r >= FrameSize {
			break
		}
		for c, ch := range line {
			if c >= FrameSize {
				break
			}
			if ch == '.' || ch == ' ' {
				continue
			}
			color, ok := board.ParseColor(string(ch))
			if !ok {
				color = fallback
			}
			s[r][c] = board.FilledBlock(color)
		}
	}
	return s
}
