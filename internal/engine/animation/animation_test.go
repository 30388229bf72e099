package animation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/clearing"
)

func newBoard(t *testing.T, size int) *board.Board {
	t.Helper()
	b, err := board.New(size, board.ColorGrey)
	require.NoError(t, err)
	return b
}

func TestSingleRowWave(t *testing.T) {
	b := newBoard(t, 10)
	cfg := DefaultConfig()
	base := time.UnixMilli(100_000)
	var seq Sequence

	added := Generate(b, []clearing.Line{{Index: 5, Color: board.ColorRed}}, nil, cfg, base, &seq)
	assert.Equal(t, 10, added)

	var prev time.Time
	for col := 1; col <= 10; col++ {
		tile, _ := b.Tile(board.P(5, col))
		require.Len(t, tile.Animations, 1)
		a := tile.Animations[0]
		assert.Equal(t, board.AnimRowSingle, a.Type)
		assert.Equal(t, board.ColorRed, a.Color)
		assert.Equal(t, cfg.Single.Duration, a.Duration)
		if col == 1 {
			assert.Equal(t, base, a.StartTime, "sweep starts at the batch time")
		} else {
			assert.Equal(t, cfg.Single.WaveDelay, a.StartTime.Sub(prev))
		}
		prev = a.StartTime
	}

	other, _ := b.Tile(board.P(4, 1))
	assert.Empty(t, other.Animations)
}

func TestSingleStartDelayShiftsSweep(t *testing.T) {
	b := newBoard(t, 10)
	cfg := DefaultConfig()
	cfg.Single.StartDelay = 40 * time.Millisecond
	base := time.UnixMilli(100_000)
	var seq Sequence

	Generate(b, []clearing.Line{{Index: 2, Color: board.ColorBlue}}, nil, cfg, base, &seq)

	for col := 1; col <= 10; col++ {
		tile, _ := b.Tile(board.P(2, col))
		require.Len(t, tile.Animations, 1)
		want := base.Add(cfg.Single.StartDelay + time.Duration(col-1)*cfg.Single.WaveDelay)
		assert.Equal(t, want, tile.Animations[0].StartTime, "col %d", col)
	}
}

func TestTiersAccumulate(t *testing.T) {
	b := newBoard(t, 6)
	cfg := DefaultConfig()
	var seq Sequence
	rows := []clearing.Line{{Index: 1}, {Index: 2}, {Index: 3}, {Index: 4}}

	Generate(b, rows, nil, cfg, time.UnixMilli(0), &seq)

	tile, _ := b.Tile(board.P(3, 6))
	require.Len(t, tile.Animations, 4)
	types := []board.AnimationType{}
	for _, a := range tile.Animations {
		types = append(types, a.Type)
	}
	assert.Equal(t, []board.AnimationType{
		board.AnimRowSingle, board.AnimRowDouble, board.AnimRowTriple, board.AnimRowQuad,
	}, types)

	quad := tile.Animations[3]
	assert.Equal(t, cfg.BeatCount, quad.BeatCount)
	assert.Equal(t, cfg.FinishDuration, quad.FinishDuration)
	assert.Equal(t, (cfg.Quad.Duration-cfg.FinishDuration)/time.Duration(cfg.BeatCount), quad.BeatDuration())
	assert.Zero(t, tile.Animations[0].BeatCount)
}

func TestRowsAndColumnsTierIndependently(t *testing.T) {
	b := newBoard(t, 5)
	var seq Sequence
	rows := []clearing.Line{{Index: 2}}
	cols := []clearing.Line{{Index: 1}, {Index: 4}}

	Generate(b, rows, cols, DefaultConfig(), time.UnixMilli(0), &seq)

	cross, _ := b.Tile(board.P(2, 4))
	require.Len(t, cross.Animations, 3)
	assert.Equal(t, board.AnimRowSingle, cross.Animations[0].Type)
	assert.Equal(t, board.AnimColumnSingle, cross.Animations[1].Type)
	assert.Equal(t, board.AnimColumnDouble, cross.Animations[2].Type)

	colOnly, _ := b.Tile(board.P(5, 1))
	assert.Len(t, colOnly.Animations, 2)
}

func TestGenerateAppends(t *testing.T) {
	b := newBoard(t, 4)
	var seq Sequence
	line := []clearing.Line{{Index: 1}}

	Generate(b, line, nil, DefaultConfig(), time.UnixMilli(0), &seq)
	Generate(b, line, nil, DefaultConfig(), time.UnixMilli(50), &seq)

	tile, _ := b.Tile(board.P(1, 1))
	require.Len(t, tile.Animations, 2)
	assert.NotEqual(t, tile.Animations[0].ID, tile.Animations[1].ID)
	assert.Equal(t, uint64(8), seq.Peek())
}

func TestCleanup(t *testing.T) {
	b := newBoard(t, 4)
	base := time.UnixMilli(1_000)
	short := board.TileAnimation{ID: 1, StartTime: base, Duration: 100 * time.Millisecond}
	long := board.TileAnimation{ID: 2, StartTime: base, Duration: 300 * time.Millisecond}
	late := board.TileAnimation{ID: 3, StartTime: base.Add(time.Second), Duration: 10 * time.Millisecond}
	b.AppendAnimations(board.P(1, 1), short, long)
	b.AppendAnimations(board.P(4, 4), late)

	tests := []struct {
		name    string
		now     time.Time
		removed int
		left    int
	}{
		{"before anything ends", base.Add(99 * time.Millisecond), 0, 3},
		{"exactly at end of short", base.Add(100 * time.Millisecond), 1, 2},
		{"again at same time", base.Add(100 * time.Millisecond), 0, 2},
		{"after long", base.Add(500 * time.Millisecond), 1, 1},
		{"after late", base.Add(2 * time.Second), 1, 0},
	}

	for _, tt := range tests {
		removed := Cleanup(b, tt.now)
		assert.Equal(t, tt.removed, removed, tt.name)
		assert.Equal(t, tt.left, b.AnimationCount(), tt.name)
	}
	assert.False(t, Busy(b, base))
}
