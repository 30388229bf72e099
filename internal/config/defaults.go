package config

import (
	_ "embed"
	"time"

	"github.com/tetrix-game/tetrix/internal/engine/animation"
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

//go:embed defaults/tetrix.yaml
var defaultTetrixYAML []byte

// Default returns the default tetrix configuration.
func Default() Config {
	colors := make(map[string]float64)
	for _, c := range board.PlayableColors() {
		colors[c.String()] = 1
	}
	return Config{
		Grid: GridConfig{
			Size:       board.DefaultSize,
			Background: board.DefaultBackground.String(),
		},
		Scoring: ScoringConfig{
			Multiplier: 1,
		},
		Queue: QueueConfig{
			Visible:       shapes.DefaultVisible,
			Size:          shapes.Infinite,
			Colors:        colors,
			ReducedFactor: 1,
		},
		Timing: TimingConfig{
			SettleDelay: 300 * time.Millisecond,
			SoundOffset: 150 * time.Millisecond,
			ReturnDelay: 250 * time.Millisecond,
		},
		Animation: animation.DefaultConfig(),
		Abilities: AbilitiesConfig{
			Rotate:  1,
			Discard: 5,
		},
		Feedback: FeedbackConfig{
			InsufficientFunds: 1500 * time.Millisecond,
		},
	}
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return defaultTetrixYAML
}
