package shapes

import "math/rand"

// Generator deals random shapes in weighted random colors.
type Generator struct {
	rng       *rand.Rand
	palette   Palette
	templates []Template
	total     int
}

// NewGenerator creates a generator over the full catalog.
func NewGenerator(rng *rand.Rand, palette Palette) *Generator {
	return NewGeneratorWith(rng, palette, Catalog)
}

// NewGeneratorWith creates a generator over a custom template set.
func NewGeneratorWith(rng *rand.Rand, palette Palette, templates []Template) *Generator {
	if len(palette) == 0 {
		palette = UniformPalette()
	}
	if len(templates) == 0 {
		templates = Catalog
	}
	total := 0
	for _, t := range templates {
		total += max(t.Weight, 1)
	}
	return &Generator{
		rng:       rng,
		palette:   palette.Normalized(),
		templates: templates,
		total:     total,
	}
}

// Palette returns the normalized color weights in use.
func (g *Generator) Palette() Palette {
	return g.palette
}

// Next draws a template, a random orientation and a color.
func (g *Generator) Next() Shape {
	t := g.pickTemplate()
	s := t.Shape(g.palette.Pick(g.rng.Float64()))
	for range g.rng.Intn(4) {
		s = s.Rotate(true)
	}
	return s
}

func (g *Generator) pickTemplate() Template {
	n := g.rng.Intn(g.total)
	for _, t := range g.templates {
		n -= max(t.Weight, 1)
		if n < 0 {
			return t
		}
	}
	return g.templates[len(g.templates)-1]
}
