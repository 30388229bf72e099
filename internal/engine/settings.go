package engine

import (
	"time"

	"github.com/tetrix-game/tetrix/internal/engine/animation"
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/drag"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

// Settings are the gameplay constants of a session. They are fixed once the
// Engine is built.
type Settings struct {
	GridSize   int
	Background board.Color
	Multiplier int // M in the clear score; must be at least 1, New rejects less

	Visible   int
	QueueSize int // shapes.Infinite or a finite total
	Palette   shapes.Palette

	Timing    drag.Timing
	Animation animation.Config

	RotateCost        int
	DiscardCost       int
	InsufficientFunds time.Duration // how long the feedback flag stays up
}

// DefaultSettings returns the stock endless game.
func DefaultSettings() Settings {
	return Settings{
		GridSize:   board.DefaultSize,
		Background: board.DefaultBackground,
		Multiplier: 1,
		Visible:    shapes.DefaultVisible,
		QueueSize:  shapes.Infinite,
		Palette:    shapes.UniformPalette(),
		Timing: drag.Timing{
			SettleDelay: 300 * time.Millisecond,
			SoundOffset: 150 * time.Millisecond,
			ReturnDelay: 250 * time.Millisecond,
		},
		Animation:         animation.DefaultConfig(),
		RotateCost:        1,
		DiscardCost:       5,
		InsufficientFunds: 1500 * time.Millisecond,
	}
}

// Prefill is a block placed on the board before play starts.
type Prefill struct {
	Position board.Position
	Color    board.Color
}

// Puzzle is a finite game with a fixed starting board and supply. Using up
// the supply ends the game: it is won when the score reaches Target.
type Puzzle struct {
	Name    string
	Prefill []Prefill
	Shapes  []shapes.Shape
	Target  int
}
