// Package challenge loads finite-supply puzzles: a prefilled board, a fixed
// list of shapes and a target score.
package challenge

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tetrix-game/tetrix/internal/engine"
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

var (
	// ErrUnknownChallenge is returned when no challenge has the requested ID.
	ErrUnknownChallenge = errors.New("challenge: unknown challenge")
	// ErrInvalidChallenge wraps every validation failure of a definition.
	ErrInvalidChallenge = errors.New("challenge: invalid definition")
)

//go:embed levels/*.yaml
var builtin embed.FS

// Challenge is a parsed, validated puzzle. Puzzle.Name holds the ID so a
// saved game can find its challenge again.
type Challenge struct {
	ID          string
	Name        string
	Description string
	Size        int
	Puzzle      engine.Puzzle
	FilePath    string
}

// Settings returns base with the grid size and supply this challenge needs.
func (c Challenge) Settings(base engine.Settings) engine.Settings {
	base.GridSize = c.Size
	base.QueueSize = len(c.Puzzle.Shapes)
	return base
}

// yamlChallenge is the on-disk format.
type yamlChallenge struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Size        int         `yaml:"size"`
	Target      int         `yaml:"target"`
	Board       []string    `yaml:"board,omitempty"`
	Shapes      []yamlShape `yaml:"shapes"`
}

// yamlShape names a catalog piece or spells one out. Pattern rows use
// color letters; Color is the fallback for any other mark.
type yamlShape struct {
	Name    string   `yaml:"name,omitempty"`
	Color   string   `yaml:"color,omitempty"`
	Pattern []string `yaml:"pattern,omitempty"`
}

// Parse decodes and validates one challenge.
func Parse(data []byte) (Challenge, error) {
	var yc yamlChallenge
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Challenge{}, fmt.Errorf("challenge: yaml unmarshal: %w", err)
	}
	return yc.build()
}

func invalid(id, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidChallenge, id, fmt.Sprintf(format, args...))
}

func (yc yamlChallenge) build() (Challenge, error) {
	id := strings.TrimSpace(yc.ID)
	if id == "" {
		return Challenge{}, invalid("?", "missing id")
	}
	size := yc.Size
	if size == 0 {
		size = len(yc.Board)
	}
	if size < board.MinSize || size > board.MaxSize {
		return Challenge{}, invalid(id, "size %d outside %d-%d", size, board.MinSize, board.MaxSize)
	}
	if yc.Target < 0 {
		return Challenge{}, invalid(id, "negative target")
	}

	prefill, err := parseBoard(id, size, yc.Board)
	if err != nil {
		return Challenge{}, err
	}

	if len(yc.Shapes) == 0 {
		return Challenge{}, invalid(id, "no shapes")
	}
	supply := make([]shapes.Shape, 0, len(yc.Shapes))
	for i, ys := range yc.Shapes {
		s, err := ys.shape()
		if err != nil {
			return Challenge{}, invalid(id, "shape %d: %v", i+1, err)
		}
		supply = append(supply, s)
	}

	name := yc.Name
	if name == "" {
		name = id
	}
	return Challenge{
		ID:          id,
		Name:        name,
		Description: yc.Description,
		Size:        size,
		Puzzle: engine.Puzzle{
			Name:    id,
			Prefill: prefill,
			Shapes:  supply,
			Target:  yc.Target,
		},
	}, nil
}

// parseBoard reads color letters row by row. '.' and ' ' are empty.
// An absent board is an empty one.
func parseBoard(id string, size int, rows []string) ([]engine.Prefill, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows) != size {
		return nil, invalid(id, "board has %d rows, want %d", len(rows), size)
	}

	var prefill []engine.Prefill
	for r, line := range rows {
		cells := []rune(line)
		if len(cells) != size {
			return nil, invalid(id, "board row %d has %d cells, want %d", r+1, len(cells), size)
		}
		for c, ch := range cells {
			if ch == '.' || ch == ' ' {
				continue
			}
			color, ok := board.ParseColor(string(ch))
			if !ok || color == board.ColorGrey {
				return nil, invalid(id, "board row %d: unknown color %q", r+1, ch)
			}
			prefill = append(prefill, engine.Prefill{Position: board.P(r+1, c+1), Color: color})
		}
	}
	return prefill, nil
}

func (ys yamlShape) shape() (shapes.Shape, error) {
	color := board.ColorRed
	if ys.Color != "" {
		parsed, ok := board.ParseColor(ys.Color)
		if !ok || parsed == board.ColorGrey {
			return shapes.Shape{}, fmt.Errorf("unknown color %q", ys.Color)
		}
		color = parsed
	}

	switch {
	case ys.Name != "" && len(ys.Pattern) > 0:
		return shapes.Shape{}, errors.New("name and pattern are exclusive")
	case ys.Name != "":
		t, ok := shapes.TemplateByName(ys.Name)
		if !ok {
			return shapes.Shape{}, fmt.Errorf("unknown piece %q", ys.Name)
		}
		return t.Shape(color), nil
	case len(ys.Pattern) > 0:
		if len(ys.Pattern) > shapes.FrameSize {
			return shapes.Shape{}, fmt.Errorf("pattern taller than %d", shapes.FrameSize)
		}
		for _, row := range ys.Pattern {
			if len([]rune(row)) > shapes.FrameSize {
				return shapes.Shape{}, fmt.Errorf("pattern wider than %d", shapes.FrameSize)
			}
		}
		s := shapes.ParsePattern(ys.Pattern, color).Normalize()
		if s.CellCount() == 0 {
			return shapes.Shape{}, errors.New("empty pattern")
		}
		return s, nil
	default:
		return shapes.Shape{}, errors.New("needs a name or a pattern")
	}
}

// Loader reads challenge files from a filesystem.
type Loader struct {
	fsys fs.FS
	root string
}

// Builtin returns a loader over the challenges shipped with the binary.
func Builtin() *Loader {
	return &Loader{fsys: builtin, root: "levels"}
}

// NewLoader returns a loader over a directory on disk.
func NewLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir), root: "."}
}

// LoadAll recursively loads every challenge file. Results are sorted by ID.
// Any malformed file fails the whole load.
func (l *Loader) LoadAll() ([]Challenge, error) {
	var all []Challenge
	seen := make(map[string]string)

	err := fs.WalkDir(l.fsys, l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(path.Ext(p)) {
			return nil
		}

		c, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		if prev, dup := seen[c.ID]; dup {
			return invalid(c.ID, "defined in both %s and %s", prev, p)
		}
		seen[c.ID] = p
		all = append(all, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("challenge: walking %s: %w", l.root, err)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// LoadFile loads one challenge by path within the loader's filesystem.
func (l *Loader) LoadFile(p string) (Challenge, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Challenge{}, fmt.Errorf("challenge: reading %s: %w", p, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Challenge{}, fmt.Errorf("challenge: parsing %s: %w", p, err)
	}
	c.FilePath = p
	return c, nil
}

// ByID loads a specific challenge.
func (l *Loader) ByID(id string) (Challenge, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Challenge{}, err
	}
	for _, c := range all {
		if c.ID == id {
			return c, nil
		}
	}
	return Challenge{}, fmt.Errorf("%w: %s", ErrUnknownChallenge, id)
}

// IDs returns every challenge ID in sorted order.
func (l *Loader) IDs() ([]string, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, c := range all {
		ids[i] = c.ID
	}
	return ids, nil
}

func isSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
