// Package placement decides whether a shape fits on the board.
// Every function here is free of side effects and safe to call on each
// pointer move.
package placement

import (
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

// Targets returns the absolute board positions the shape's filled cells
// would cover with its anchor at loc. Positions may be out of bounds.
func Targets(s shapes.Shape, loc board.Position) []board.Position {
	offsets := s.Offsets()
	targets := make([]board.Position, len(offsets))
	for i, o := range offsets {
		targets[i] = loc.Add(o.DR, o.DC)
	}
	return targets
}

// IsValid reports whether every filled cell of s, relative to its anchor,
// lands on an in-bounds, currently empty tile when the anchor is at loc.
// An empty shape never fits.
func IsValid(s shapes.Shape, loc board.Position, b *board.Board) bool {
	targets := Targets(s, loc)
	if len(targets) == 0 {
		return false
	}
	for _, p := range targets {
		if !b.InBounds(p) || b.IsFilled(p) {
			return false
		}
	}
	return true
}

// Preview describes a hovered placement for highlighting.
type Preview struct {
	Hovered []board.Position // in-bounds targets
	Invalid []board.Position // in-bounds targets that are already filled
	Outside int              // targets that fall off the board
	Valid   bool
}

// Evaluate computes hover feedback for s at loc.
func Evaluate(s shapes.Shape, loc board.Position, b *board.Board) Preview {
	var pv Preview
	targets := Targets(s, loc)
	for _, p := range targets {
		if !b.InBounds(p) {
			pv.Outside++
			continue
		}
		pv.Hovered = append(pv.Hovered, p)
		if b.IsFilled(p) {
			pv.Invalid = append(pv.Invalid, p)
		}
	}
	pv.Valid = len(targets) > 0 && pv.Outside == 0 && len(pv.Invalid) == 0
	return pv
}

// Fits reports whether s fits anywhere on the board.
func Fits(s shapes.Shape, b *board.Board) bool {
	h, w := s.Bounds()
	for row := 1; row <= b.Size()-h+1; row++ {
		for col := 1; col <= b.Size()-w+1; col++ {
			if IsValid(s, board.P(row, col), b) {
				return true
			}
		}
	}
	return false
}

// AnyFits reports whether at least one of the shapes fits somewhere.
func AnyFits(queue []shapes.QueuedShape, b *board.Board) bool {
	for _, qs := range queue {
		if Fits(qs.Shape, b) {
			return true
		}
	}
	return false
}

// Locations returns every anchor position where s fits, row-major.
func Locations(s shapes.Shape, b *board.Board) []board.Position {
	var locs []board.Position
	h, w := s.Bounds()
	for row := 1; row <= b.Size()-h+1; row++ {
		for col := 1; col <= b.Size()-w+1; col++ {
			loc := board.P(row, col)
			if IsValid(s, loc, b) {
				locs = append(locs, loc)
			}
		}
	}
	return locs
}
