package board

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOutOfRange is returned when a restored tile lies outside the grid.
	ErrOutOfRange = errors.New("board: tile position out of range")
	// ErrDuplicateTile is returned when two restored tiles share a position.
	ErrDuplicateTile = errors.New("board: duplicate tile position")
)

// TileRecord is the serialized form of a tile exchanged with persistence.
// Every field except Position is optional.
type TileRecord struct {
	Position         Position          `json:"position"`
	BackgroundColor  string            `json:"backgroundColor,omitempty"`
	IsFilled         *bool             `json:"isFilled,omitempty"`
	Color            string            `json:"color,omitempty"`
	ActiveAnimations []AnimationRecord `json:"activeAnimations,omitempty"`
}

// AnimationRecord is the serialized form of a TileAnimation.
// Times are unix milliseconds, durations are milliseconds.
type AnimationRecord struct {
	ID             uint64 `json:"id"`
	Type           string `json:"type"`
	StartTime      int64  `json:"startTime"`
	Duration       int64  `json:"duration"`
	BeatCount      int    `json:"beatCount,omitempty"`
	FinishDuration int64  `json:"finishDuration,omitempty"`
	Color          string `json:"color,omitempty"`
}

// Records exports every tile of the board.
func (b *Board) Records() []TileRecord {
	records := make([]TileRecord, 0, len(b.cells))
	for _, t := range b.Tiles() {
		filled := t.Block.Filled
		rec := TileRecord{
			Position:        t.Position,
			BackgroundColor: t.Background.String(),
			IsFilled:        &filled,
		}
		if filled {
			rec.Color = t.Block.Color.String()
		}
		for _, a := range t.Animations {
			rec.ActiveAnimations = append(rec.ActiveAnimations, animationToRecord(a))
		}
		records = append(records, rec)
	}
	return records
}

// Restore rebuilds a board from persisted tile records.
//
// Missing tiles are treated as empty and missing fields take their defaults
// (color → background, fill flag → false). Animations that have already
// finished at now, or whose type is unknown, are dropped. Records that
// reference positions outside the grid or repeat a position make the whole
// set invalid: Restore returns an error and no board.
func Restore(size int, background Color, records []TileRecord, now time.Time) (*Board, error) {
	b, err := New(size, background)
	if err != nil {
		return nil, err
	}

	seen := make([]bool, size*size)
	for _, rec := range records {
		if !b.InBounds(rec.Position) {
			return nil, fmt.Errorf("%w: %v", ErrOutOfRange, rec.Position)
		}
		i := b.index(rec.Position)
		if seen[i] {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateTile, rec.Position)
		}
		seen[i] = true

		c := cell{background: parseOr(rec.BackgroundColor, background)}
		if rec.IsFilled != nil && *rec.IsFilled {
			c.block = FilledBlock(parseOr(rec.Color, c.background))
		}
		for _, ar := range rec.ActiveAnimations {
			a, ok := animationFromRecord(ar)
			if !ok || a.Expired(now) {
				continue
			}
			c.anims = append(c.anims, a)
		}
		b.cells[i] = c
	}

	if err := b.CheckInvariant(); err != nil {
		return nil, err
	}
	return b, nil
}

// parseOr parses a color name, returning def for empty or unknown names.
func parseOr(name string, def Color) Color {
	if name == "" {
		return def
	}
	c, ok := ParseColor(name)
	if !ok {
		return def
	}
	return c
}

func animationToRecord(a TileAnimation) AnimationRecord {
	return AnimationRecord{
		ID:             a.ID,
		Type:           a.Type.String(),
		StartTime:      a.StartTime.UnixMilli(),
		Duration:       a.Duration.Milliseconds(),
		BeatCount:      a.BeatCount,
		FinishDuration: a.FinishDuration.Milliseconds(),
		Color:          a.Color.String(),
	}
}

func animationFromRecord(r AnimationRecord) (TileAnimation, bool) {
	typ, ok := ParseAnimationType(r.Type)
	if !ok || r.Duration < 0 {
		return TileAnimation{}, false
	}
	return TileAnimation{
		ID:             r.ID,
		Type:           typ,
		StartTime:      time.UnixMilli(r.StartTime),
		Duration:       time.Duration(r.Duration) * time.Millisecond,
		BeatCount:      r.BeatCount,
		FinishDuration: time.Duration(r.FinishDuration) * time.Millisecond,
		Color:          parseOr(r.Color, ColorGrey),
	}, true
}
