package shapes

import "github.com/tetrix-game/tetrix/internal/engine/board"

// Template is a named uncolored piece in the catalog.
type Template struct {
	Name    string
	Pattern []string
	Weight  int // relative draw frequency
}

// Shape returns the template drawn in the given color.
func (t Template) Shape(color board.Color) Shape {
	return FromPattern(color, t.Pattern...)
}

// Catalog lists every piece the generator can deal. Rotations of these
// are produced at draw time, so only one orientation is listed.
var Catalog = []Template{
	{Name: "mono", Pattern: []string{"X"}, Weight: 2},
	{Name: "domino", Pattern: []string{"XX"}, Weight: 3},
	{Name: "tromino-i", Pattern: []string{"XXX"}, Weight: 3},
	{Name: "tromino-l", Pattern: []string{"X.", "XX"}, Weight: 3},
	{Name: "tetromino-i", Pattern: []string{"XXXX"}, Weight: 2},
	{Name: "tetromino-o", Pattern: []string{"XX", "XX"}, Weight: 3},
	{Name: "tetromino-t", Pattern: []string{"XXX", ".X."}, Weight: 2},
	{Name: "tetromino-l", Pattern: []string{"X.", "X.", "XX"}, Weight: 2},
	{Name: "tetromino-j", Pattern: []string{".X", ".X", "XX"}, Weight: 2},
	{Name: "tetromino-s", Pattern: []string{".XX", "XX."}, Weight: 2},
	{Name: "tetromino-z", Pattern: []string{"XX.", ".XX"}, Weight: 2},
	{Name: "pentomino-l", Pattern: []string{"X..", "X..", "XXX"}, Weight: 1},
	{Name: "rect-2x3", Pattern: []string{"XXX", "XXX"}, Weight: 1},
	{Name: "square-3x3", Pattern: []string{"XXX", "XXX", "XXX"}, Weight: 1},
	{Name: "diagonal-2", Pattern: []string{"X.", ".X"}, Weight: 1},
}

// TemplateByName looks up a catalog entry.
func TemplateByName(name string) (Template, bool) {
	for _, t := range Catalog {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
