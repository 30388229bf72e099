package board

import "time"

// Block is the fillable unit of a tile or shape cell.
type Block struct {
	Filled bool  `json:"isFilled"`
	Color  Color `json:"color"`
}

// EmptyBlock returns an unfilled block.
func EmptyBlock() Block {
	return Block{}
}

// FilledBlock returns a filled block with the given color.
func FilledBlock(c Color) Block {
	return Block{Filled: true, Color: c}
}

// Tile is a read-only view of one board cell.
type Tile struct {
	Position   Position
	Background Color
	Block      Block
	Animations []TileAnimation
}

// AnimationType names a clear animation tier along one axis.
type AnimationType uint8

const (
	AnimRowSingle AnimationType = iota
	AnimRowDouble
	AnimRowTriple
	AnimRowQuad
	AnimColumnSingle
	AnimColumnDouble
	AnimColumnTriple
	AnimColumnQuad
	animTypeCount
)

var animTypeNames = [animTypeCount]string{
	"row-single", "row-double", "row-triple", "row-quad",
	"column-single", "column-double", "column-triple", "column-quad",
}

// String returns the stable name used in saves.
func (t AnimationType) String() string {
	if t >= animTypeCount {
		return "unknown"
	}
	return animTypeNames[t]
}

// ParseAnimationType converts a saved name back to its type.
func ParseAnimationType(s string) (AnimationType, bool) {
	for i, name := range animTypeNames {
		if name == s {
			return AnimationType(i), true
		}
	}
	return 0, false
}

// IsQuad reports whether the animation is a beating quad tier.
func (t AnimationType) IsQuad() bool {
	return t == AnimRowQuad || t == AnimColumnQuad
}

// TileAnimation is a timed visual effect attached to a tile.
type TileAnimation struct {
	ID             uint64
	Type           AnimationType
	StartTime      time.Time
	Duration       time.Duration
	BeatCount      int           // quad tier only
	FinishDuration time.Duration // quad tier only
	Color          Color
}

// EndTime returns the instant the animation stops playing.
func (a TileAnimation) EndTime() time.Time {
	return a.StartTime.Add(a.Duration)
}

// Expired reports whether now >= StartTime + Duration.
func (a TileAnimation) Expired(now time.Time) bool {
	return !now.Before(a.EndTime())
}

// BeatDuration is the length of one pulse of a quad animation.
// Returns 0 for non-beating animations.
func (a TileAnimation) BeatDuration() time.Duration {
	if a.BeatCount <= 0 {
		return 0
	}
	return (a.Duration - a.FinishDuration) / time.Duration(a.BeatCount)
}

// Progress returns how far through the animation now is, in [0, 1].
func (a TileAnimation) Progress(now time.Time) float64 {
	if a.Duration <= 0 || !now.After(a.StartTime) {
		return 0
	}
	p := float64(now.Sub(a.StartTime)) / float64(a.Duration)
	if p > 1 {
		return 1
	}
	return p
}
