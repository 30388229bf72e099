package shapes

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrix-game/tetrix/internal/engine/board"
)

func TestAnchorIsBoundingBoxCorner(t *testing.T) {
	s := FromPattern(board.ColorRed,
		"....",
		"..X.",
		".XX.",
		"....",
	)

	row, col, ok := s.Anchor()
	require.True(t, ok)
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
	assert.Equal(t, []Offset{{0, 1}, {1, 0}, {1, 1}}, s.Offsets())

	h, w := s.Bounds()
	assert.Equal(t, 2, h)
	assert.Equal(t, 2, w)
}

func TestEmptyShapeHasNoAnchor(t *testing.T) {
	var s Shape
	_, _, ok := s.Anchor()
	assert.False(t, ok)
	assert.Nil(t, s.Offsets())
}

func TestRotate(t *testing.T) {
	bar := FromPattern(board.ColorBlue, "XXX")

	cw := bar.Rotate(true)
	assert.Equal(t, []Offset{{0, 0}, {1, 0}, {2, 0}}, cw.Offsets())
	assert.Equal(t, bar, cw.Rotate(false))

	l := FromPattern(board.ColorGreen, "X.", "X.", "XX")
	full := l.Rotate(true).Rotate(true).Rotate(true).Rotate(true)
	assert.Equal(t, l, full)
	assert.Equal(t, board.ColorGreen, l.Rotate(true).Color())
}

func TestPatternRoundTrip(t *testing.T) {
	s := FromPattern(board.ColorOrange, "XX", ".X")
	assert.Equal(t, []string{"OO..", ".O..", "....", "...."}, s.Pattern())
	assert.Equal(t, s, ParsePattern(s.Pattern(), board.ColorRed))
}

func TestPaletteReduced(t *testing.T) {
	p := UniformPalette()

	tests := []struct {
		name   string
		factor float64
	}{
		{"halved", 0.5},
		{"quartered", 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := p.Reduced(board.ColorBlue, board.ColorPurple, tt.factor)

			assert.InDelta(t, 1.0, r.Total(), 1e-9)
			combined := r.Weight(board.ColorBlue) + r.Weight(board.ColorPurple)
			assert.InDelta(t, (2.0/6.0)*tt.factor, combined, 1e-9)

			// The rest share the freed weight equally because they started equal.
			others := []board.Color{board.ColorRed, board.ColorOrange, board.ColorYellow, board.ColorGreen}
			for _, c := range others {
				assert.InDelta(t, (1-combined)/4, r.Weight(c), 1e-9)
			}
		})
	}

	assert.Equal(t, p.Normalized(), p.Reduced(board.ColorBlue, board.ColorPurple, 1))
}

func TestPalettePickExcludesBackground(t *testing.T) {
	p := UniformPalette()
	for i := range 1000 {
		c := p.Pick(float64(i) / 1000)
		assert.NotEqual(t, board.ColorGrey, c)
	}
	assert.Equal(t, board.ColorPurple, p.Pick(math.Nextafter(1, 0)))
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(42)), UniformPalette())
	b := NewGenerator(rand.New(rand.NewSource(42)), UniformPalette())

	for range 50 {
		sa, sb := a.Next(), b.Next()
		assert.Equal(t, sa, sb)
		assert.Positive(t, sa.CellCount())
		r, c, _ := sa.Anchor()
		assert.Zero(t, r)
		assert.Zero(t, c)
	}
}

func newTestQueue(size int) *Queue {
	return NewQueue(NewGenerator(rand.New(rand.NewSource(1)), UniformPalette()), 3, size)
}

func TestInfiniteQueue(t *testing.T) {
	q := newTestQueue(Infinite)
	require.Equal(t, 3, q.Len())
	assert.Equal(t, Infinite, q.Hidden())

	first := q.Visible()
	taken, ok := q.Consume(1)
	require.True(t, ok)
	assert.Equal(t, first[1].ID, taken.ID)

	after := q.Visible()
	require.Len(t, after, 3)
	assert.Equal(t, first[0].ID, after[0].ID)
	assert.Equal(t, first[2].ID, after[1].ID)
	assert.Greater(t, after[2].ID, first[2].ID)
	assert.False(t, q.Exhausted())
}

func TestFiniteQueueRevealsAndExhausts(t *testing.T) {
	q := newTestQueue(5)
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 2, q.Hidden())

	for i := 0; i < 5; i++ {
		_, ok := q.Consume(0)
		require.True(t, ok)
	}
	assert.True(t, q.Exhausted())
	assert.Zero(t, q.Len())

	_, ok := q.Consume(0)
	assert.False(t, ok)
}

func TestQueueIDsIncreaseAcrossResets(t *testing.T) {
	q := newTestQueue(Infinite)
	last := q.Visible()[2].ID

	q.Reset(4)
	for _, qs := range q.Visible() {
		assert.Greater(t, qs.ID, last)
	}
}

func TestQueueOutOfRange(t *testing.T) {
	q := newTestQueue(Infinite)
	_, ok := q.Consume(-1)
	assert.False(t, ok)
	_, ok = q.At(3)
	assert.False(t, ok)
	assert.False(t, q.Replace(5, Shape{}))
}

func TestQueueRecordRestore(t *testing.T) {
	q := newTestQueue(6)
	q.Consume(0)
	rec := q.Record()

	restored := newTestQueue(Infinite)
	restored.Restore(rec)

	assert.Equal(t, q.Visible(), restored.Visible())
	assert.Equal(t, q.Hidden(), restored.Hidden())
	next, _ := restored.Consume(0)
	assert.Equal(t, q.Visible()[0].ID, next.ID)
}

func TestQueueRestoreZeroRecordKeepsSupply(t *testing.T) {
	q := newTestQueue(Infinite)
	before := q.Visible()

	q.Restore(QueueRecord{})
	assert.True(t, q.Infinite())
	assert.False(t, q.Exhausted())
	assert.Equal(t, before, q.Visible())

	finite := newTestQueue(6)
	finite.Restore(QueueRecord{NextID: 50})
	assert.Equal(t, 6, finite.Size())
	assert.Equal(t, 3, finite.Hidden())
	finite.Consume(0)
	finite.Restore(QueueRecord{})
	assert.Len(t, finite.Visible(), 3)
}
