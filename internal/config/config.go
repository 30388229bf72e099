// Package config provides YAML-based game configuration loading and
// gameplay presets for tetrix.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/tetrix-game/tetrix/internal/engine"
	"github.com/tetrix-game/tetrix/internal/engine/animation"
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/drag"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

// ErrInvalidGridSize is returned by Validate for a grid outside 4..20.
var ErrInvalidGridSize = errors.New("config: grid size out of range")

// Config contains all configuration for a tetrix session.
type Config struct {
	Grid      GridConfig       `yaml:"grid"`
	Scoring   ScoringConfig    `yaml:"scoring"`
	Queue     QueueConfig      `yaml:"queue"`
	Timing    TimingConfig     `yaml:"timing"`
	Animation animation.Config `yaml:"animation"`
	Abilities AbilitiesConfig  `yaml:"abilities"`
	Feedback  FeedbackConfig   `yaml:"feedback"`
}

// GridConfig defines the board.
type GridConfig struct {
	Size       int    `yaml:"size"`
	Background string `yaml:"background"`
}

// ScoringConfig defines the score multiplier M.
type ScoringConfig struct {
	Multiplier int `yaml:"multiplier"`
}

// QueueConfig defines the shape supply.
type QueueConfig struct {
	Visible       int                `yaml:"visible"`
	Size          int                `yaml:"size"` // -1 for endless
	Colors        map[string]float64 `yaml:"colors"`
	ReducedColors []string           `yaml:"reduced_colors"`
	ReducedFactor float64            `yaml:"reduced_factor"`
}

// TimingConfig defines the placement commit delays.
type TimingConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"`
	SoundOffset time.Duration `yaml:"sound_offset"`
	ReturnDelay time.Duration `yaml:"return_delay"`
}

// AbilitiesConfig defines ability prices in points.
type AbilitiesConfig struct {
	Rotate  int `yaml:"rotate"`
	Discard int `yaml:"discard"`
}

// FeedbackConfig defines UI feedback durations.
type FeedbackConfig struct {
	InsufficientFunds time.Duration `yaml:"insufficient_funds"`
}

// Validate checks ranges the engine relies on.
func (c Config) Validate() error {
	if c.Grid.Size < board.MinSize || c.Grid.Size > board.MaxSize {
		return fmt.Errorf("%w: %d", ErrInvalidGridSize, c.Grid.Size)
	}
	if c.Scoring.Multiplier < 1 {
		return fmt.Errorf("config: scoring.multiplier must be at least 1, got %d", c.Scoring.Multiplier)
	}
	if c.Queue.Visible < 1 {
		return fmt.Errorf("config: queue.visible must be at least 1, got %d", c.Queue.Visible)
	}
	if c.Queue.Size != shapes.Infinite && c.Queue.Size < 1 {
		return fmt.Errorf("config: queue.size must be -1 or positive, got %d", c.Queue.Size)
	}
	if len(c.Queue.ReducedColors) != 0 && len(c.Queue.ReducedColors) != 2 {
		return fmt.Errorf("config: queue.reduced_colors needs exactly two colors")
	}
	if c.Queue.ReducedFactor <= 0 || c.Queue.ReducedFactor > 1 {
		return fmt.Errorf("config: queue.reduced_factor must be in (0, 1], got %g", c.Queue.ReducedFactor)
	}
	if c.Timing.SoundOffset > c.Timing.SettleDelay {
		return fmt.Errorf("config: timing.sound_offset %s is after settle_delay %s", c.Timing.SoundOffset, c.Timing.SettleDelay)
	}

	durations := map[string]time.Duration{
		"timing.settle_delay":         c.Timing.SettleDelay,
		"timing.return_delay":         c.Timing.ReturnDelay,
		"animation.single.duration":   c.Animation.Single.Duration,
		"animation.double.duration":   c.Animation.Double.Duration,
		"animation.triple.duration":   c.Animation.Triple.Duration,
		"animation.quad.duration":     c.Animation.Quad.Duration,
		"feedback.insufficient_funds": c.Feedback.InsufficientFunds,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive", name)
		}
	}
	if c.Animation.BeatCount < 1 {
		return fmt.Errorf("config: animation.beat_count must be at least 1")
	}
	if c.Animation.FinishDuration >= c.Animation.Quad.Duration {
		return fmt.Errorf("config: animation.finish_duration must be shorter than the quad duration")
	}
	return nil
}

// Palette builds the weighted color palette, applying the reduced-frequency
// mode when configured. Unknown color names are an error.
func (c Config) Palette() (shapes.Palette, error) {
	var p shapes.Palette
	for _, col := range board.PlayableColors() {
		w, ok := c.Queue.Colors[col.String()]
		if !ok && len(c.Queue.Colors) > 0 {
			continue
		}
		if !ok {
			w = 1
		}
		if w > 0 {
			p = append(p, shapes.WeightedColor{Color: col, Weight: w})
		}
	}
	for name := range c.Queue.Colors {
		col, ok := board.ParseColor(name)
		if !ok || col == board.ColorGrey {
			return nil, fmt.Errorf("config: queue.colors: unknown color %q", name)
		}
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("config: queue.colors has no positive weight")
	}

	if len(c.Queue.ReducedColors) == 2 && c.Queue.ReducedFactor < 1 {
		a, okA := board.ParseColor(c.Queue.ReducedColors[0])
		b, okB := board.ParseColor(c.Queue.ReducedColors[1])
		if !okA || !okB {
			return nil, fmt.Errorf("config: queue.reduced_colors: unknown color in %v", c.Queue.ReducedColors)
		}
		p = p.Reduced(a, b, c.Queue.ReducedFactor)
	}
	return p.Normalized(), nil
}

// Settings validates the config and converts it for the engine.
func (c Config) Settings() (engine.Settings, error) {
	if err := c.Validate(); err != nil {
		return engine.Settings{}, err
	}
	palette, err := c.Palette()
	if err != nil {
		return engine.Settings{}, err
	}
	bg, ok := board.ParseColor(c.Grid.Background)
	if !ok {
		bg = board.DefaultBackground
	}
	return engine.Settings{
		GridSize:   c.Grid.Size,
		Background: bg,
		Multiplier: c.Scoring.Multiplier,
		Visible:    c.Queue.Visible,
		QueueSize:  c.Queue.Size,
		Palette:    palette,
		Timing: drag.Timing{
			SettleDelay: c.Timing.SettleDelay,
			SoundOffset: c.Timing.SoundOffset,
			ReturnDelay: c.Timing.ReturnDelay,
		},
		Animation:         c.Animation,
		RotateCost:        c.Abilities.Rotate,
		DiscardCost:       c.Abilities.Discard,
		InsufficientFunds: c.Feedback.InsufficientFunds,
	}, nil
}
