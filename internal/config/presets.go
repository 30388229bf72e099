package config

import "fmt"

// Preset represents a named gameplay setup.
type Preset string

const (
	PresetCasual  Preset = "casual"
	PresetClassic Preset = "classic"
	PresetArcade  Preset = "arcade"
)

// Presets lists every preset in menu order.
func Presets() []Preset {
	return []Preset{PresetCasual, PresetClassic, PresetArcade}
}

// ParsePreset validates a preset name. The empty string means classic.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case "":
		return PresetClassic, nil
	case PresetCasual, PresetClassic, PresetArcade:
		return Preset(s), nil
	default:
		return "", fmt.Errorf("config: unknown preset %q", s)
	}
}

// ApplyPreset modifies the config based on a preset.
// Classic leaves the loaded values alone.
func ApplyPreset(cfg *Config, preset Preset) {
	switch preset {
	case PresetCasual:
		cfg.Scoring.Multiplier = 1
		cfg.Abilities.Rotate = 0
		cfg.Abilities.Discard = 1
		cfg.Queue.ReducedColors = nil
		cfg.Queue.ReducedFactor = 1
	case PresetArcade:
		cfg.Scoring.Multiplier = 5
		cfg.Abilities.Rotate = 5
		cfg.Abilities.Discard = 25
		cfg.Queue.ReducedColors = []string{"orange", "purple"}
		cfg.Queue.ReducedFactor = 0.25
	}
}
