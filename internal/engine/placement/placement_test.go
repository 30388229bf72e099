package placement

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

func newBoard(t *testing.T, size int) *board.Board {
	t.Helper()
	b, err := board.New(size, board.ColorGrey)
	require.NoError(t, err)
	return b
}

func TestIsValid(t *testing.T) {
	b := newBoard(t, 5)
	b.Fill(board.P(3, 3), board.ColorRed)

	// Offset inside the frame: anchor is (row 1, col 1) of the frame.
	corner := shapes.FromPattern(board.ColorBlue,
		"....",
		".XX.",
		".X..",
	)

	tests := []struct {
		name string
		loc  board.Position
		want bool
	}{
		{"top left", board.P(1, 1), true},
		{"bottom right edge", board.P(4, 4), true},
		{"column overflow", board.P(1, 5), false},
		{"row overflow", board.P(5, 1), false},
		{"zero row", board.P(0, 1), false},
		{"covers filled", board.P(3, 2), false},
		{"beside filled", board.P(2, 4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(corner, tt.loc, b))
		})
	}
}

func TestIsValidHasNoSideEffects(t *testing.T) {
	b := newBoard(t, 4)
	b.Fill(board.P(2, 2), board.ColorRed)
	before := b.Clone()

	s := shapes.FromPattern(board.ColorBlue, "XX", "XX")
	for row := 0; row <= 5; row++ {
		for col := 0; col <= 5; col++ {
			IsValid(s, board.P(row, col), b)
			Evaluate(s, board.P(row, col), b)
		}
	}
	assert.True(t, before.Equal(b))
}

// IsValid must agree with a direct check of every filled cell.
func TestIsValidMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	gen := shapes.NewGenerator(rng, shapes.UniformPalette())

	for trial := range 200 {
		b := newBoard(t, 6)
		for range rng.Intn(20) {
			b.Fill(board.P(rng.Intn(6)+1, rng.Intn(6)+1), board.ColorRed)
		}
		s := gen.Next()
		loc := board.P(rng.Intn(8)-1, rng.Intn(8)-1)

		want := true
		for r := range shapes.FrameSize {
			for c := range shapes.FrameSize {
				if !s[r][c].Filled {
					continue
				}
				p := board.P(loc.Row+r, loc.Col+c) // generated shapes are normalized
				if p.Row < 1 || p.Row > 6 || p.Col < 1 || p.Col > 6 || b.IsFilled(p) {
					want = false
				}
			}
		}
		assert.Equal(t, want, IsValid(s, loc, b), "trial %d at %v", trial, loc)
	}
}

func TestEvaluatePartialHighlight(t *testing.T) {
	b := newBoard(t, 4)
	b.Fill(board.P(1, 2), board.ColorRed)

	s := shapes.FromPattern(board.ColorBlue, "XXX")
	pv := Evaluate(s, board.P(1, 2), b)

	assert.False(t, pv.Valid)
	assert.Equal(t, []board.Position{board.P(1, 2), board.P(1, 3), board.P(1, 4)}, pv.Hovered)
	assert.Equal(t, []board.Position{board.P(1, 2)}, pv.Invalid)
	assert.Zero(t, pv.Outside)

	pv = Evaluate(s, board.P(2, 3), b)
	assert.False(t, pv.Valid)
	assert.Equal(t, 1, pv.Outside)
	assert.Empty(t, pv.Invalid)
}

func TestFits(t *testing.T) {
	b := newBoard(t, 4)
	square := shapes.FromPattern(board.ColorBlue, "XXX", "XXX", "XXX")
	assert.True(t, Fits(square, b))
	assert.Len(t, Locations(square, b), 4)

	b.Fill(board.P(2, 2), board.ColorRed)
	b.Fill(board.P(3, 3), board.ColorRed)
	assert.False(t, Fits(square, b))

	mono := shapes.FromPattern(board.ColorBlue, "X")
	assert.True(t, AnyFits([]shapes.QueuedShape{{ID: 1, Shape: square}, {ID: 2, Shape: mono}}, b))
	assert.False(t, AnyFits([]shapes.QueuedShape{{ID: 1, Shape: square}}, b))
}
