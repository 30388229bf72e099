package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)
	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("size = %dx%d, want 12x4", s.Width(), s.Height())
	}
	for y := range s.Height() {
		for x := range s.Width() {
			if c := s.GetCell(x, y); c != blank {
				t.Fatalf("cell (%d, %d) = %+v, want blank", x, y, c)
			}
		}
	}
}

func TestScreenOutOfBounds(t *testing.T) {
	s := NewScreen(4, 4)
	for _, p := range []struct{ x, y int }{{-1, 0}, {4, 0}, {0, -1}, {0, 4}} {
		s.SetColor(p.x, p.y, '█', ColorRed)
		if c := s.GetCell(p.x, p.y); c != blank {
			t.Errorf("GetCell(%d, %d) = %+v, want blank", p.x, p.y, c)
		}
	}
	if s.String() != strings.Repeat("    \n", 3)+"    " {
		t.Errorf("out of bounds writes leaked:\n%s", s.String())
	}
}

func TestScreenFillAndClear(t *testing.T) {
	s := NewScreen(3, 2)
	s.FillCell(Cell{Rune: '·', Color: ColorDim})
	if c := s.GetCell(2, 1); c.Rune != '·' || c.Color != ColorDim {
		t.Errorf("FillCell left %+v", c)
	}

	s.Fill('#')
	if c := s.GetCell(0, 0); c.Rune != '#' || c.Color != ColorDefault {
		t.Errorf("Fill should use the default color, got %+v", c)
	}

	s.Clear()
	if s.String() != "   \n   " {
		t.Errorf("Clear left %q", s.String())
	}
}

// A board panel as the game draws it: dim frame, dim empty cells, one
// placed block and the cursor brackets.
func TestScreenBoardPanel(t *testing.T) {
	s := NewScreen(10, 5)
	panel := NewRect(0, 0, 8, 4)
	s.DrawBox(panel, ColorDim)
	s.DrawRectColor(NewRect(1, 1, 6, 2), '·', ColorDim)
	s.SetColor(2, 1, '█', ColorPurple)
	s.SetColor(3, 2, '[', ColorHighlight)
	s.SetColor(4, 2, ']', ColorHighlight)

	want := strings.Join([]string{
		"┌──────┐  ",
		"│·█····│  ",
		"│··[]··│  ",
		"└──────┘  ",
		"          ",
	}, "\n")
	if got := s.String(); got != want {
		t.Errorf("panel =\n%s\nwant\n%s", got, want)
	}

	tests := []struct {
		name string
		x, y int
		want Color
	}{
		{"corner", 0, 0, ColorDim},
		{"edge", 7, 2, ColorDim},
		{"empty cell", 5, 1, ColorDim},
		{"block", 2, 1, ColorPurple},
		{"cursor", 4, 2, ColorHighlight},
		{"outside", 9, 4, ColorDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.GetCell(tt.x, tt.y).Color; got != tt.want {
				t.Errorf("color at (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestScreenText(t *testing.T) {
	s := NewScreen(24, 3)
	s.DrawTextColor(0, 0, "Score: 125", ColorWhite)
	s.DrawTextCenteredColor(1, "Challenges unavailable", ColorDanger)
	s.DrawText(20, 2, "Lines") // clipped to "Line"

	if row := s.Row(0); !strings.HasPrefix(row, "Score: 125") || s.GetCell(9, 0).Color != ColorWhite {
		t.Errorf("row 0 = %q", row)
	}
	if s.Get(1, 1) != 'C' || s.GetCell(1, 1).Color != ColorDanger {
		t.Errorf("centered text misplaced: %q", s.Row(1))
	}
	if s.Row(2) != strings.Repeat(" ", 20)+"Line" {
		t.Errorf("clipped text = %q", s.Row(2))
	}
	if s.Row(-1) != strings.Repeat(" ", 24) {
		t.Error("out of bounds row should be blank")
	}
}

func TestScreenTextCountsRunes(t *testing.T) {
	s := NewScreen(8, 1)
	s.DrawTextColor(0, 0, "×·×", ColorDanger)
	if s.Get(1, 0) != '·' || s.Get(2, 0) != '×' {
		t.Errorf("one cell per rune expected, row = %q", s.Row(0))
	}
}

func TestScreenResizeKeepsCells(t *testing.T) {
	s := NewScreen(10, 6)
	s.SetColor(1, 1, '█', ColorBlue)
	s.DrawText(0, 5, "gone")

	s.Resize(4, 3)
	if s.Width() != 4 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", s.Width(), s.Height())
	}
	if c := s.GetCell(1, 1); c.Rune != '█' || c.Color != ColorBlue {
		t.Errorf("kept cell = %+v", c)
	}

	s.Resize(10, 6)
	if s.Row(5) != strings.Repeat(" ", 10) {
		t.Errorf("cropped row came back: %q", s.Row(5))
	}
	if s.GetCell(1, 1).Color != ColorBlue {
		t.Error("enlarging lost a kept cell")
	}
}
