package engine

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrix-game/tetrix/internal/core"
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/drag"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

var (
	keyboard = drag.Offsets{TileSize: 1}
	mono     = shapes.FromPattern(board.ColorRed, "X")
	domino   = shapes.FromPattern(board.ColorBlue, "XX")
)

type harness struct {
	t     *testing.T
	e     *Engine
	clock *core.FixedClock
	audio *Recorder
}

func newHarness(t *testing.T, s Settings, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		clock: core.NewFixedClock(time.UnixMilli(1_700_000_000_000)),
		audio: &Recorder{},
	}
	opts = append([]Option{WithClock(h.clock), WithAudio(h.audio), WithSeed(42)}, opts...)
	h.e = New(s, opts...)
	return h
}

func monoPuzzle(n, target int) Puzzle {
	p := Puzzle{Name: "monos", Target: target}
	for range n {
		p.Shapes = append(p.Shapes, mono)
	}
	return p
}

// place runs a full drag of the shape at index onto pos and lets it settle.
func (h *harness) place(index int, pos board.Position) Result {
	h.t.Helper()
	require.False(h.t, h.e.Dispatch(SelectShape{Index: index, Offsets: keyboard}).Rejected)
	require.False(h.t, h.e.Dispatch(HoverAt{Position: pos}).Rejected)
	res := h.e.Dispatch(PlaceShape{})
	require.Equal(h.t, drag.PhasePlacing, res.Phase)
	h.clock.Advance(h.e.Settings().Timing.SettleDelay)
	return h.e.Dispatch(Tick{})
}

func TestEndToEndRowClear(t *testing.T) {
	s := DefaultSettings()
	s.Multiplier = 5
	h := newHarness(t, s, WithPuzzle(monoPuzzle(10, 5)))

	for col := 1; col <= 10; col++ {
		if col == 5 {
			continue
		}
		res := h.place(0, board.P(5, col))
		assert.Zero(t, res.Cleared.PointsEarned)
	}
	snap := h.e.Snapshot()
	require.Equal(t, 9, snap.Board.FilledCount())
	require.False(t, snap.Board.RowFilled(5))

	res := h.place(0, board.P(5, 5))
	assert.Equal(t, 1, res.Cleared.RowsCleared)
	assert.Zero(t, res.Cleared.ColumnsCleared)
	assert.Equal(t, 5, res.Cleared.PointsEarned)
	assert.Equal(t, 5, res.Score)
	assert.Equal(t, 1, res.ComboLevel)

	snap = h.e.Snapshot()
	assert.Zero(t, snap.Board.FilledCount())
	var prev time.Time
	for col := 1; col <= 10; col++ {
		tile, _ := snap.Board.Tile(board.P(5, col))
		assert.False(t, tile.Block.Filled)
		assert.Equal(t, board.ColorGrey, tile.Background)
		require.Len(t, tile.Animations, 1)
		a := tile.Animations[0]
		assert.Equal(t, board.AnimRowSingle, a.Type)
		if col > 1 {
			assert.True(t, a.StartTime.After(prev), "column %d", col)
		}
		prev = a.StartTime
	}

	// the supply is used up, so the puzzle is scored
	assert.True(t, res.GameOver)
	assert.True(t, res.Won)
	assert.Equal(t, 10, snap.Stats.Placements)
	assert.Equal(t, 1, snap.Stats.RowsCleared)
}

func TestPlacementSoundFiresMidSettle(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	timing := h.e.Settings().Timing

	h.e.Dispatch(SelectShape{Index: 0, Offsets: keyboard})
	h.e.Dispatch(HoverAt{Position: board.P(1, 1)})
	h.e.Dispatch(PlaceShape{})
	assert.Equal(t, []Sound{SoundPickUp}, h.audio.Sounds())

	h.clock.Advance(timing.SoundOffset - time.Millisecond)
	h.e.Dispatch(Tick{})
	assert.Equal(t, []Sound{SoundPickUp}, h.audio.Sounds())
	assert.Zero(t, h.e.Snapshot().Board.FilledCount())

	h.clock.Advance(time.Millisecond)
	res := h.e.Dispatch(Tick{})
	assert.Equal(t, []Sound{SoundPickUp, SoundClickIntoPlace}, h.audio.Sounds())
	assert.Equal(t, drag.PhasePlacing, res.Phase)
	assert.Zero(t, h.e.Snapshot().Board.FilledCount(), "board changes only after settling")

	h.clock.Advance(timing.SettleDelay - timing.SoundOffset)
	res = h.e.Dispatch(Tick{})
	assert.Equal(t, drag.PhaseNone, res.Phase)
	assert.Positive(t, h.e.Snapshot().Board.FilledCount())
	assert.Equal(t, []Sound{SoundPickUp, SoundClickIntoPlace}, h.audio.Sounds())
}

func TestEarlyCompletionPlaysClickOnce(t *testing.T) {
	h := newHarness(t, DefaultSettings(), WithPuzzle(monoPuzzle(4, 0)))
	h.e.Dispatch(SelectShape{Index: 0, Offsets: keyboard})
	h.e.Dispatch(HoverAt{Position: board.P(2, 2)})
	h.e.Dispatch(PlaceShape{})

	res := h.e.Dispatch(CompletePlacement{})
	require.False(t, res.Rejected)
	assert.True(t, h.e.Snapshot().Board.IsFilled(board.P(2, 2)))

	h.clock.Advance(time.Second)
	h.e.Dispatch(Tick{})
	assert.Equal(t, []Sound{SoundPickUp, SoundClickIntoPlace}, h.audio.Sounds())
}

func TestPlaceWhileIdleIsNoop(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	before := h.e.Snapshot()

	for _, a := range []Action{PlaceShape{}, CompletePlacement{}, CompleteReturn{}, ReturnShape{}, UpdatePointer{X: 3, Y: 3}} {
		res := h.e.Dispatch(a)
		assert.True(t, res.Rejected, "%T", a)
		assert.Equal(t, drag.PhaseNone, res.Phase)
	}
	after := h.e.Snapshot()
	assert.True(t, before.Board.Equal(after.Board))
	assert.Equal(t, before.Queue, after.Queue)
	assert.Empty(t, h.audio.Events)
}

func TestSelectWhileDraggingRejected(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	require.False(t, h.e.Dispatch(SelectShape{Index: 0, Offsets: keyboard}).Rejected)
	h.e.Dispatch(HoverAt{Position: board.P(3, 3)})

	res := h.e.Dispatch(SelectShape{Index: 1, Offsets: keyboard})
	assert.True(t, res.Rejected)
	assert.Equal(t, drag.PhaseDragging, res.Phase)
	assert.Equal(t, 0, h.e.Snapshot().Drag.Index)
}

func TestSelectRejectedWhileCommitPending(t *testing.T) {
	h := newHarness(t, DefaultSettings(), WithPuzzle(monoPuzzle(5, 0)))
	h.e.Dispatch(SelectShape{Index: 0, Offsets: keyboard})
	h.e.Dispatch(HoverAt{Position: board.P(1, 1)})
	h.e.Dispatch(PlaceShape{})

	res := h.e.Dispatch(SelectShape{Index: 1, Offsets: keyboard})
	assert.True(t, res.Rejected)
	assert.Equal(t, drag.PhasePlacing, res.Phase)
}

func TestInvalidPlacementChangesNothing(t *testing.T) {
	p := monoPuzzle(3, 0)
	p.Shapes[0] = domino
	p.Prefill = []Prefill{{Position: board.P(4, 5), Color: board.ColorGreen}}
	h := newHarness(t, DefaultSettings(), WithPuzzle(p))
	h.e.Dispatch(AddScore{Points: 7})
	before := h.e.Snapshot()

	tests := []struct {
		name string
		pos  board.Position
	}{
		{"overlaps filled tile", board.P(4, 4)},
		{"hangs off the right edge", board.P(1, 10)},
		{"above the grid", board.P(0, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.audio.Reset()
			h.e.Dispatch(SelectShape{Index: 0, Offsets: keyboard})
			h.e.Dispatch(HoverAt{Position: tt.pos})
			assert.False(t, h.e.Snapshot().Drag.Valid)

			res := h.e.Dispatch(PlaceShape{})
			assert.Equal(t, drag.PhaseReturning, res.Phase)
			assert.Contains(t, h.audio.Sounds(), SoundInvalidPlacement)

			h.clock.Advance(h.e.Settings().Timing.ReturnDelay)
			res = h.e.Dispatch(Tick{})
			assert.Equal(t, drag.PhaseNone, res.Phase)

			after := h.e.Snapshot()
			assert.True(t, before.Board.Equal(after.Board))
			assert.Equal(t, 7, after.Score)
			assert.Equal(t, before.Queue, after.Queue)
		})
	}
}

func TestReturnShape(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.e.Dispatch(SelectShape{Index: 2, Offsets: keyboard})
	res := h.e.Dispatch(ReturnShape{})
	assert.Equal(t, drag.PhaseReturning, res.Phase)
	res = h.e.Dispatch(CompleteReturn{})
	assert.False(t, res.Rejected)
	assert.Equal(t, drag.PhaseNone, res.Phase)
	assert.Equal(t, []Sound{SoundPickUp, SoundReturn}, h.audio.Sounds())
}

func TestOutOfRangeIndexIsNoop(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	before := h.e.Snapshot()
	for _, a := range []Action{
		SelectShape{Index: -1, Offsets: keyboard},
		SelectShape{Index: 3, Offsets: keyboard},
		RotateShape{Index: 9},
		DiscardShape{Index: -2},
	} {
		assert.True(t, h.e.Dispatch(a).Rejected, "%#v", a)
	}
	assert.Equal(t, before.Queue, h.e.Snapshot().Queue)
}

func TestSpendPoints(t *testing.T) {
	s := DefaultSettings()
	s.InsufficientFunds = time.Second
	h := newHarness(t, s)

	res := h.e.Dispatch(SpendPoints{Amount: 5, Reason: "hint"})
	assert.True(t, res.Rejected)
	assert.Zero(t, res.Score)
	assert.True(t, h.e.Snapshot().Funds)
	assert.Equal(t, []Sound{SoundInsufficientFunds}, h.audio.Sounds())

	h.clock.Advance(time.Second)
	assert.False(t, h.e.Snapshot().Funds)

	h.e.Dispatch(AddScore{Points: 10})
	res = h.e.Dispatch(SpendPoints{Amount: 4})
	assert.False(t, res.Rejected)
	assert.Equal(t, 6, res.Score)
	assert.Equal(t, 4, h.e.Snapshot().Stats.PointsSpent)

	res = h.e.Dispatch(SpendPoints{Amount: 7})
	assert.True(t, res.Rejected)
	assert.Equal(t, 6, res.Score)
}

func TestScoreAdjustments(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	assert.Equal(t, 12, h.e.Dispatch(AddScore{Points: 12}).Score)
	assert.Equal(t, 2, h.e.Dispatch(SubtractScore{Points: 10}).Score)
	assert.Equal(t, 0, h.e.Dispatch(SubtractScore{Points: 10}).Score)
	assert.True(t, h.e.Dispatch(AddScore{Points: -1}).Rejected)
	assert.True(t, h.e.Dispatch(SubtractScore{Points: -1}).Rejected)
}

func TestRotateCostsPoints(t *testing.T) {
	s := DefaultSettings()
	s.RotateCost = 2
	p := monoPuzzle(3, 0)
	p.Shapes[1] = domino
	h := newHarness(t, s, WithPuzzle(p))

	res := h.e.Dispatch(RotateShape{Index: 1, Clockwise: true})
	assert.True(t, res.Rejected)
	assert.Equal(t, domino, h.e.Snapshot().Queue[1].Shape)

	h.e.Dispatch(AddScore{Points: 3})
	res = h.e.Dispatch(RotateShape{Index: 1, Clockwise: true})
	require.False(t, res.Rejected)
	assert.Equal(t, 1, res.Score)

	q := h.e.Snapshot().Queue
	h2, w2 := q[1].Shape.Bounds()
	assert.Equal(t, [2]int{2, 1}, [2]int{h2, w2})
	assert.Equal(t, p.Shapes[1].Color(), q[1].Shape.Color())

	h.e.Dispatch(SelectShape{Index: 0, Offsets: keyboard})
	assert.True(t, h.e.Dispatch(RotateShape{Index: 1}).Rejected, "no rotating while dragging")
}

func TestDiscardRevealsNext(t *testing.T) {
	s := DefaultSettings()
	s.DiscardCost = 0
	p := monoPuzzle(5, 0)
	p.Shapes[4] = domino
	h := newHarness(t, s, WithPuzzle(p))

	before := h.e.Snapshot()
	require.Equal(t, 2, before.Hidden)

	res := h.e.Dispatch(DiscardShape{Index: 0})
	require.False(t, res.Rejected)
	snap := h.e.Snapshot()
	assert.Equal(t, 1, snap.Hidden)
	assert.Equal(t, before.Queue[1].ID, snap.Queue[0].ID)
	assert.Greater(t, snap.Queue[2].ID, before.Queue[2].ID)

	h.e.Dispatch(DiscardShape{Index: 0})
	h.e.Dispatch(DiscardShape{Index: 0})
	snap = h.e.Snapshot()
	assert.Equal(t, domino, snap.Queue[len(snap.Queue)-1].Shape)
}

func TestGameOverWhenNothingFits(t *testing.T) {
	s := DefaultSettings()
	s.GridSize = 4
	p := Puzzle{Name: "checker", Shapes: []shapes.Shape{mono, domino, domino}}
	for r := 1; r <= 4; r++ {
		for c := 1; c <= 4; c++ {
			if (r+c)%2 == 0 {
				p.Prefill = append(p.Prefill, Prefill{Position: board.P(r, c), Color: board.ColorYellow})
			}
		}
	}
	h := newHarness(t, s, WithPuzzle(p))
	require.False(t, h.e.GameOver())

	res := h.place(0, board.P(1, 2))
	assert.Zero(t, res.Cleared.PointsEarned)
	assert.True(t, res.GameOver)
	assert.False(t, res.Won)
	assert.Contains(t, h.audio.Sounds(), SoundGameOver)

	assert.True(t, h.e.Dispatch(SelectShape{Index: 0, Offsets: keyboard}).Rejected)

	res = h.e.Dispatch(ResetGame{})
	assert.False(t, res.GameOver)
	assert.Equal(t, 8, h.e.Snapshot().Board.FilledCount())
	assert.Len(t, h.e.Snapshot().Queue, 3)
}

func TestTickCleansUpAnimations(t *testing.T) {
	s := DefaultSettings()
	s.GridSize = 4
	p := monoPuzzle(4, 0)
	p.Prefill = []Prefill{
		{Position: board.P(1, 1), Color: board.ColorRed},
		{Position: board.P(1, 2), Color: board.ColorRed},
		{Position: board.P(1, 3), Color: board.ColorRed},
	}
	h := newHarness(t, s, WithPuzzle(p))

	res := h.place(0, board.P(1, 4))
	require.Equal(t, 1, res.Cleared.RowsCleared)
	require.Equal(t, 4, h.e.Snapshot().Board.AnimationCount())

	h.clock.Advance(time.Minute)
	h.e.Dispatch(Tick{})
	assert.Zero(t, h.e.Snapshot().Board.AnimationCount())
}

func TestSnapshotIsDetached(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	snap := h.e.Snapshot()
	snap.Board.Fill(board.P(1, 1), board.ColorRed)
	snap.Queue[0].ID = 999
	assert.False(t, h.e.Snapshot().Board.IsFilled(board.P(1, 1)))
	assert.NotEqual(t, uint64(999), h.e.Snapshot().Queue[0].ID)
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.GridSize = 4
	p := monoPuzzle(4, 0)
	p.Prefill = []Prefill{{Position: board.P(1, 1), Color: board.ColorRed}, {Position: board.P(1, 2), Color: board.ColorRed}, {Position: board.P(1, 3), Color: board.ColorRed}}
	h := newHarness(t, s, WithPuzzle(p))
	h.place(0, board.P(1, 4))
	h.place(0, board.P(3, 3))
	saved := h.e.Save()

	other := newHarness(t, s, WithPuzzle(p))
	other.clock.Set(h.clock.Now())
	require.NoError(t, other.e.Restore(saved))

	a, b := h.e.Snapshot(), other.e.Snapshot()
	assert.True(t, a.Board.Equal(b.Board))
	assert.Equal(t, a.Board.AnimationCount(), b.Board.AnimationCount())
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Stats, b.Stats)
	assert.Equal(t, a.Queue, b.Queue)
}

func TestRestoreAgesOutAnimations(t *testing.T) {
	s := DefaultSettings()
	s.GridSize = 4
	p := monoPuzzle(4, 0)
	p.Prefill = []Prefill{{Position: board.P(2, 1), Color: board.ColorRed}, {Position: board.P(2, 2), Color: board.ColorRed}, {Position: board.P(2, 3), Color: board.ColorRed}}
	h := newHarness(t, s, WithPuzzle(p))
	h.place(0, board.P(2, 4))
	saved := h.e.Save()

	h.clock.Advance(time.Hour)
	require.NoError(t, h.e.Restore(saved))
	assert.Zero(t, h.e.Snapshot().Board.AnimationCount())
}

func TestInvalidMultiplierFallsBack(t *testing.T) {
	var buf bytes.Buffer
	s := DefaultSettings()
	s.Multiplier = 0
	h := newHarness(t, s, WithLogger(log.New(&buf)))

	assert.Equal(t, DefaultSettings().Multiplier, h.e.Settings().Multiplier)
	assert.Contains(t, buf.String(), "invalid score multiplier")
}

func TestRestoreTilesOnlySave(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	require.NoError(t, h.e.Restore(SaveData{GridSize: 10, Tiles: []board.TileRecord{}}))

	snap := h.e.Snapshot()
	assert.False(t, snap.GameOver)
	assert.Len(t, snap.Queue, h.e.Settings().Visible)
	assert.Equal(t, shapes.Infinite, snap.Hidden)

	p := monoPuzzle(5, 3)
	c := newHarness(t, DefaultSettings(), WithPuzzle(p))
	require.NoError(t, c.e.Restore(SaveData{GridSize: 10}))

	snap = c.e.Snapshot()
	assert.False(t, snap.GameOver)
	assert.Len(t, snap.Queue, 3)
	assert.Equal(t, 2, snap.Hidden)
}

func TestRestoreFailsClosed(t *testing.T) {
	var buf bytes.Buffer
	s := DefaultSettings()
	s.GridSize = 4
	h := newHarness(t, s, WithLogger(log.New(&buf)))
	h.e.Dispatch(AddScore{Points: 3})

	filled := true
	bad := SaveData{
		GridSize: 4,
		Score:    50,
		Tiles: []board.TileRecord{
			{Position: board.P(1, 1), IsFilled: &filled},
			{Position: board.P(1, 1), IsFilled: &filled},
		},
	}
	err := h.e.Restore(bad)
	require.ErrorIs(t, err, board.ErrDuplicateTile)

	snap := h.e.Snapshot()
	assert.Zero(t, snap.Board.FilledCount())
	assert.Equal(t, 16, len(snap.Board.Tiles()))
	assert.Zero(t, snap.Score)
	assert.Contains(t, buf.String(), "saved board rejected")

	err = h.e.Restore(SaveData{GridSize: 6})
	assert.ErrorIs(t, err, ErrGridMismatch)
}

func TestComboPatternReported(t *testing.T) {
	s := DefaultSettings()
	s.GridSize = 6
	p := Puzzle{Name: "pattern", Shapes: []shapes.Shape{mono, mono, mono}}
	// rows 1-4 and columns 1-4 filled except the main diagonal, minus (1,6)
	for r := 1; r <= 6; r++ {
		for c := 1; c <= 6; c++ {
			inBand := r <= 4 || c <= 4
			onDiag := r == c && r <= 4
			if inBand && !onDiag && !(r == 1 && c == 6) {
				p.Prefill = append(p.Prefill, Prefill{Position: board.P(r, c), Color: board.ColorPurple})
			}
		}
	}
	h := newHarness(t, s, WithPuzzle(p))

	res := h.place(0, board.P(1, 6))
	assert.True(t, res.ComboPattern)
	assert.Zero(t, res.Cleared.PointsEarned)
	assert.Equal(t, 1, h.e.Snapshot().Stats.ComboPatterns)
	assert.Contains(t, h.audio.Sounds(), SoundComboPattern)
}
