// Package board implements the grid model: an N×N map of tiles that is the
// only source of truth for occupancy.
package board

import (
	"errors"
	"fmt"
)

// Grid size limits.
const (
	MinSize     = 4
	MaxSize     = 20
	DefaultSize = 10
)

var (
	// ErrInvalidSize is returned for a grid size outside [MinSize, MaxSize].
	ErrInvalidSize = errors.New("board: invalid grid size")
	// ErrTileCount is returned when the tile count is not size².
	ErrTileCount = errors.New("board: tile count mismatch")
)

type cell struct {
	background Color
	block      Block
	anims      []TileAnimation
}

// Board is a fixed N×N tile map.
// Cells are stored in row-major order: index = (row-1)*N + (col-1).
type Board struct {
	size       int
	background Color
	cells      []cell
}

// New creates an empty board of the given size.
func New(size int, background Color) (*Board, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidSize, size, MinSize, MaxSize)
	}
	b := &Board{
		size:       size,
		background: background,
		cells:      make([]cell, size*size),
	}
	b.Reset()
	return b, nil
}

// Size returns N.
func (b *Board) Size() int {
	return b.size
}

// Background returns the color of an empty tile.
func (b *Board) Background() Color {
	return b.background
}

// index converts a position to a flat array index.
func (b *Board) index(p Position) int {
	return (p.Row-1)*b.size + (p.Col - 1)
}

// InBounds returns true if the position lies within [1, N] on both axes.
func (b *Board) InBounds(p Position) bool {
	return p.Row >= 1 && p.Row <= b.size && p.Col >= 1 && p.Col <= b.size
}

// Tile returns a copy of the tile at p.
func (b *Board) Tile(p Position) (Tile, bool) {
	if !b.InBounds(p) {
		return Tile{}, false
	}
	c := b.cells[b.index(p)]
	return Tile{
		Position:   p,
		Background: c.background,
		Block:      c.block,
		Animations: append([]TileAnimation(nil), c.anims...),
	}, true
}

// IsFilled reports whether the tile at p holds a block.
// Out-of-bounds positions report false.
func (b *Board) IsFilled(p Position) bool {
	if !b.InBounds(p) {
		return false
	}
	return b.cells[b.index(p)].block.Filled
}

// ColorAt returns the visible color at p: the block color when filled,
// otherwise the tile background.
func (b *Board) ColorAt(p Position) Color {
	if !b.InBounds(p) {
		return b.background
	}
	c := b.cells[b.index(p)]
	if c.block.Filled {
		return c.block.Color
	}
	return c.background
}

// Fill places a block of the given color at p.
// Returns false if p is out of bounds.
func (b *Board) Fill(p Position, color Color) bool {
	if !b.InBounds(p) {
		return false
	}
	b.cells[b.index(p)].block = FilledBlock(color)
	return true
}

// Empty resets the block at p to empty and the background to the board default.
// Animations on the tile are kept.
func (b *Board) Empty(p Position) {
	if !b.InBounds(p) {
		return
	}
	i := b.index(p)
	b.cells[i].block = EmptyBlock()
	b.cells[i].background = b.background
}

// AppendAnimations adds animations to the tile at p without touching existing ones.
func (b *Board) AppendAnimations(p Position, anims ...TileAnimation) {
	if !b.InBounds(p) || len(anims) == 0 {
		return
	}
	i := b.index(p)
	b.cells[i].anims = append(b.cells[i].anims, anims...)
}

// FilterAnimations keeps only the animations for which keep returns true,
// on every tile. Returns the number removed.
func (b *Board) FilterAnimations(keep func(TileAnimation) bool) int {
	removed := 0
	for i := range b.cells {
		anims := b.cells[i].anims
		if len(anims) == 0 {
			continue
		}
		kept := anims[:0]
		for _, a := range anims {
			if keep(a) {
				kept = append(kept, a)
			} else {
				removed++
			}
		}
		if len(kept) == 0 {
			kept = nil
		}
		b.cells[i].anims = kept
	}
	return removed
}

// AnimationCount returns the number of animations across all tiles.
func (b *Board) AnimationCount() int {
	n := 0
	for _, c := range b.cells {
		n += len(c.anims)
	}
	return n
}

// Reset empties every tile and drops all animations.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = cell{background: b.background}
	}
}

// Tiles returns copies of all tiles in row-major order.
func (b *Board) Tiles() []Tile {
	tiles := make([]Tile, 0, len(b.cells))
	for row := 1; row <= b.size; row++ {
		for col := 1; col <= b.size; col++ {
			t, _ := b.Tile(P(row, col))
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// FilledCount returns the number of filled tiles.
func (b *Board) FilledCount() int {
	count := 0
	for _, c := range b.cells {
		if c.block.Filled {
			count++
		}
	}
	return count
}

// RowFilled reports whether every tile of the row is filled.
func (b *Board) RowFilled(row int) bool {
	for col := 1; col <= b.size; col++ {
		if !b.IsFilled(P(row, col)) {
			return false
		}
	}
	return true
}

// ColumnFilled reports whether every tile of the column is filled.
func (b *Board) ColumnFilled(col int) bool {
	for row := 1; row <= b.size; row++ {
		if !b.IsFilled(P(row, col)) {
			return false
		}
	}
	return true
}

// CheckInvariant verifies that the board holds exactly N² tiles.
func (b *Board) CheckInvariant() error {
	if len(b.cells) != b.size*b.size {
		return fmt.Errorf("%w: have %d, want %d", ErrTileCount, len(b.cells), b.size*b.size)
	}
	return nil
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]cell, len(b.cells))
	for i, c := range b.cells {
		cells[i] = c
		if c.anims != nil {
			cells[i].anims = append([]TileAnimation(nil), c.anims...)
		}
	}
	return &Board{
		size:       b.size,
		background: b.background,
		cells:      cells,
	}
}

// Equal returns true if two boards have the same occupancy and colors.
// Animations are not compared.
func (b *Board) Equal(other *Board) bool {
	if b.size != other.size || len(b.cells) != len(other.cells) {
		return false
	}
	for i, c := range b.cells {
		o := other.cells[i]
		if c.block != o.block || c.background != o.background {
			return false
		}
	}
	return true
}
