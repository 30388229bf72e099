package shapes

import (
	"github.com/tetrix-game/tetrix/internal/engine/board"
)

// WeightedColor pairs a color with its draw weight.
type WeightedColor struct {
	Color  board.Color
	Weight float64
}

// Palette is an ordered set of weighted colors. Order is kept stable so
// that draws are reproducible for a given seed.
type Palette []WeightedColor

// UniformPalette gives every playable color the same weight.
func UniformPalette() Palette {
	colors := board.PlayableColors()
	p := make(Palette, len(colors))
	for i, c := range colors {
		p[i] = WeightedColor{Color: c, Weight: 1 / float64(len(colors))}
	}
	return p
}

// Total returns the sum of all weights.
func (p Palette) Total() float64 {
	total := 0.0
	for _, wc := range p {
		total += wc.Weight
	}
	return total
}

// Weight returns the weight of a color, or 0 if absent.
func (p Palette) Weight(c board.Color) float64 {
	for _, wc := range p {
		if wc.Color == c {
			return wc.Weight
		}
	}
	return 0
}

// Normalized returns a copy whose weights sum to 1.
// A palette with no positive weight becomes uniform over its colors.
func (p Palette) Normalized() Palette {
	out := make(Palette, len(p))
	copy(out, p)
	total := p.Total()
	for i := range out {
		if total <= 0 {
			out[i].Weight = 1 / float64(len(out))
			continue
		}
		out[i].Weight /= total
	}
	return out
}

// Reduced scales the combined weight of colors a and b by factor (0.5
// halves it, 0.25 quarters it) and hands the freed weight to the remaining
// colors in proportion to their own weights. The result is normalized.
// A factor outside (0, 1) returns the palette unchanged.
func (p Palette) Reduced(a, b board.Color, factor float64) Palette {
	out := p.Normalized()
	if factor <= 0 || factor >= 1 {
		return out
	}

	var reduced, rest float64
	for _, wc := range out {
		if wc.Color == a || wc.Color == b {
			reduced += wc.Weight
		} else {
			rest += wc.Weight
		}
	}
	if reduced == 0 || rest == 0 {
		return out
	}

	freed := reduced * (1 - factor)
	for i, wc := range out {
		if wc.Color == a || wc.Color == b {
			out[i].Weight = wc.Weight * factor
		} else {
			out[i].Weight = wc.Weight + freed*(wc.Weight/rest)
		}
	}
	return out.Normalized()
}

// Pick maps a uniform sample r in [0, 1) to a color.
func (p Palette) Pick(r float64) board.Color {
	if len(p) == 0 {
		return board.ColorRed
	}
	target := r * p.Total()
	acc := 0.0
	for _, wc := range p {
		acc += wc.Weight
		if target < acc {
			return wc.Color
		}
	}
	return p[len(p)-1].Color
}
