// Package animation schedules per-tile clear animations and expires them.
// Nothing here reads the clock: callers pass the batch time in.
package animation

import (
	"time"

	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/clearing"
)

// Tier configures one clear-size tier.
type Tier struct {
	Duration   time.Duration `yaml:"duration"`
	WaveDelay  time.Duration `yaml:"wave_delay"`
	StartDelay time.Duration `yaml:"start_delay"`
}

// Config holds the timings for every tier. A tile's start time is
// base + StartDelay + (i-1)·WaveDelay for the i-th tile along the line, so a
// non-zero Single.StartDelay shifts the whole sweep of a one-line clear. The
// stock Single tier has none.
type Config struct {
	Single Tier `yaml:"single"`
	Double Tier `yaml:"double"`
	Triple Tier `yaml:"triple"`
	Quad   Tier `yaml:"quad"`

	BeatCount      int           `yaml:"beat_count"`
	FinishDuration time.Duration `yaml:"finish_duration"`
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{
		Single:         Tier{Duration: 500 * time.Millisecond, WaveDelay: 30 * time.Millisecond},
		Double:         Tier{Duration: 700 * time.Millisecond, WaveDelay: 30 * time.Millisecond, StartDelay: 50 * time.Millisecond},
		Triple:         Tier{Duration: 900 * time.Millisecond, WaveDelay: 30 * time.Millisecond, StartDelay: 100 * time.Millisecond},
		Quad:           Tier{Duration: 2000 * time.Millisecond, WaveDelay: 20 * time.Millisecond, StartDelay: 150 * time.Millisecond},
		BeatCount:      3,
		FinishDuration: 500 * time.Millisecond,
	}
}

// Sequence hands out animation IDs. The zero value starts at 1.
type Sequence struct {
	next uint64
}

// Next returns a fresh ID.
func (s *Sequence) Next() uint64 {
	s.next++
	return s.next
}

// Peek returns the last ID handed out.
func (s *Sequence) Peek() uint64 {
	return s.next
}

// Advance moves the sequence past id.
func (s *Sequence) Advance(id uint64) {
	s.next = max(s.next, id)
}

var (
	rowTiers    = [4]board.AnimationType{board.AnimRowSingle, board.AnimRowDouble, board.AnimRowTriple, board.AnimRowQuad}
	columnTiers = [4]board.AnimationType{board.AnimColumnSingle, board.AnimColumnDouble, board.AnimColumnTriple, board.AnimColumnQuad}
)

func (c Config) tier(level int) Tier {
	switch level {
	case 0:
		return c.Single
	case 1:
		return c.Double
	case 2:
		return c.Triple
	default:
		return c.Quad
	}
}

// build creates the tier record for one tile.
func (c Config) build(typ board.AnimationType, level int, start time.Time, color board.Color, seq *Sequence) board.TileAnimation {
	t := c.tier(level)
	a := board.TileAnimation{
		ID:        seq.Next(),
		Type:      typ,
		StartTime: start,
		Duration:  t.Duration,
		Color:     color,
	}
	if typ.IsQuad() {
		a.BeatCount = c.BeatCount
		a.FinishDuration = c.FinishDuration
	}
	return a
}

// Generate appends clear animations to every tile on the cleared lines.
//
// Rows and columns are tiered independently: clearing k rows gives each row
// tile one record per tier up to min(k, 4). A tile's start time is
// base + tier start delay + (index along the line) × wave delay, where the
// index is the column for a row and the row for a column, so every line
// sweeps in the same direction from one shared base time. Existing
// animations are kept. Returns the number of records added.
func Generate(b *board.Board, rows, columns []clearing.Line, cfg Config, base time.Time, seq *Sequence) int {
	added := 0
	n := b.Size()

	rowLevels := min(len(rows), 4)
	for _, line := range rows {
		for col := 1; col <= n; col++ {
			anims := make([]board.TileAnimation, 0, rowLevels)
			for level := range rowLevels {
				t := cfg.tier(level)
				start := base.Add(t.StartDelay + time.Duration(col-1)*t.WaveDelay)
				anims = append(anims, cfg.build(rowTiers[level], level, start, line.Color, seq))
			}
			b.AppendAnimations(board.P(line.Index, col), anims...)
			added += len(anims)
		}
	}

	colLevels := min(len(columns), 4)
	for _, line := range columns {
		for row := 1; row <= n; row++ {
			anims := make([]board.TileAnimation, 0, colLevels)
			for level := range colLevels {
				t := cfg.tier(level)
				start := base.Add(t.StartDelay + time.Duration(row-1)*t.WaveDelay)
				anims = append(anims, cfg.build(columnTiers[level], level, start, line.Color, seq))
			}
			b.AppendAnimations(board.P(row, line.Index), anims...)
			added += len(anims)
		}
	}
	return added
}

// Cleanup removes every animation with now >= StartTime + Duration and
// leaves the rest untouched. Calling it again with the same now is a no-op.
// Returns the number of records removed.
func Cleanup(b *board.Board, now time.Time) int {
	return b.FilterAnimations(func(a board.TileAnimation) bool {
		return !a.Expired(now)
	})
}

// Busy reports whether any animation is still playing at now.
func Busy(b *board.Board, now time.Time) bool {
	for _, t := range b.Tiles() {
		for _, a := range t.Animations {
			if !a.Expired(now) {
				return true
			}
		}
	}
	return false
}
