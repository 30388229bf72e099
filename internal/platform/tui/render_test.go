package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/tetrix-game/tetrix/internal/core"
)

func TestColorStylesCoverScreenColors(t *testing.T) {
	for c := core.ColorDefault; c <= core.ColorDanger; c++ {
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("no style for color %d", c)
		}
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(8, 3)
	s.DrawBox(core.NewRect(0, 0, 6, 3), core.ColorDim)
	s.SetColor(1, 1, '█', core.ColorRed)
	s.SetColor(2, 1, '█', core.ColorRed)
	s.SetColor(3, 1, '[', core.ColorHighlight)
	s.SetColor(4, 1, ']', core.ColorHighlight)
	s.SetColor(7, 2, '?', core.Color(200)) // unknown colors render plain

	out := RenderScreen(s)
	if got := ansi.Strip(out); got != s.String() {
		t.Errorf("rendered text =\n%s\nwant\n%s", got, s.String())
	}
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("got %d line breaks, want 2", n)
	}
}
