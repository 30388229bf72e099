package board

import "strings"

// Color identifies a block or tile background color.
type Color uint8

const (
	ColorGrey Color = iota // board background, never dealt to shapes
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorBlue
	ColorPurple
	ColorCount // Sentinel value for iteration
)

// DefaultBackground is the background color of an empty tile.
const DefaultBackground = ColorGrey

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorGrey:
		return "grey"
	case ColorRed:
		return "red"
	case ColorOrange:
		return "orange"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorPurple:
		return "purple"
	default:
		return "unknown"
	}
}

// Char returns a single character representation of the color for ASCII rendering.
func (c Color) Char() rune {
	switch c {
	case ColorRed:
		return 'R'
	case ColorOrange:
		return 'O'
	case ColorYellow:
		return 'Y'
	case ColorGreen:
		return 'G'
	case ColorBlue:
		return 'B'
	case ColorPurple:
		return 'P'
	default:
		return '.'
	}
}

// ParseColor converts a string to a Color.
// Returns ColorGrey and false if the string is not recognized.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grey", "gray":
		return ColorGrey, true
	case "red", "r":
		return ColorRed, true
	case "orange", "o":
		return ColorOrange, true
	case "yellow", "y":
		return ColorYellow, true
	case "green", "g":
		return ColorGreen, true
	case "blue", "b":
		return ColorBlue, true
	case "purple", "p":
		return ColorPurple, true
	default:
		return ColorGrey, false
	}
}

// PlayableColors returns the colors shapes can be dealt in.
// The background color is excluded.
func PlayableColors() []Color {
	return []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Unknown names decode to the background color instead of failing, so
// damaged saves and config files still load.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, _ := ParseColor(string(text))
	*c = parsed
	return nil
}
