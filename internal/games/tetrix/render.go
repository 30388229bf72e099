package tetrix

import (
	"fmt"
	"time"

	"github.com/tetrix-game/tetrix/internal/core"
	"github.com/tetrix-game/tetrix/internal/engine"
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/drag"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

const (
	tileW   = 2 // screen cells per tile horizontally
	slotW   = shapes.FrameSize * tileW
	slotH   = shapes.FrameSize + 1 // frame plus label row
	hudRows = 2
)

// layout places the board and queue on screen.
type layout struct {
	boardX, boardY int // screen cell of tile (1, 1)
	size           int
	queueX, queueY int // first inner cell of the queue box
	visible        int
	tooSmall       bool
}

func computeLayout(w, h, size, visible int) layout {
	boardW := size*tileW + 2
	boardH := size + 2
	queueW := slotW + 2
	queueH := visible*slotH + 2

	totalW := boardW + 2 + queueW
	totalH := hudRows + max(boardH, queueH) + 1

	originX := max((w-totalW)/2, 0)
	return layout{
		boardX:   originX + 1,
		boardY:   hudRows + 1,
		size:     size,
		queueX:   originX + boardW + 3,
		queueY:   hudRows + 1,
		visible:  visible,
		tooSmall: w < totalW || h < totalH,
	}
}

func (l layout) boardRect() core.Rect {
	return core.NewRect(l.boardX-1, l.boardY-1, l.size*tileW+2, l.size+2)
}

func (l layout) queueRect() core.Rect {
	return core.NewRect(l.queueX-1, l.queueY-1, slotW+2, l.visible*slotH+2)
}

// tileAt maps a screen cell to a board position.
func (l layout) tileAt(x, y int) (board.Position, bool) {
	if x < l.boardX || y < l.boardY {
		return board.Position{}, false
	}
	p := board.P(y-l.boardY+1, (x-l.boardX)/tileW+1)
	if p.Row > l.size || p.Col > l.size {
		return board.Position{}, false
	}
	return p, true
}

// slotAt maps a screen cell to a queue slot.
func (l layout) slotAt(x, y int) (int, bool) {
	if x < l.queueX || x >= l.queueX+slotW || y < l.queueY {
		return 0, false
	}
	i := (y - l.queueY) / slotH
	if i >= l.visible {
		return 0, false
	}
	return i, true
}

// slotOrigin is the screen cell where a slot's shape frame starts.
func (l layout) slotOrigin(i int) (x, y int) {
	return l.queueX, l.queueY + i*slotH + 1
}

func blockColor(c board.Color) core.Color {
	switch c {
	case board.ColorRed:
		return core.ColorRed
	case board.ColorOrange:
		return core.ColorOrange
	case board.ColorYellow:
		return core.ColorYellow
	case board.ColorGreen:
		return core.ColorGreen
	case board.ColorBlue:
		return core.ColorBlue
	case board.ColorPurple:
		return core.ColorPurple
	default:
		return core.ColorGray
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.failed != nil {
		dst.DrawTextCenteredColor(g.screenH/2, "Challenges unavailable", core.ColorDanger)
		dst.DrawTextCentered(g.screenH/2+1, g.failed.Error())
		return
	}
	if g.eng == nil {
		return
	}
	if g.lay.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	snap := g.eng.Snapshot()
	g.renderHUD(dst, snap)
	g.renderBoard(dst, snap)
	g.renderQueue(dst, snap)
	g.renderFooter(dst)
	g.renderOverlay(dst, snap)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

func (g *Game) renderHUD(dst *core.Screen, snap engine.Snapshot) {
	left := g.lay.boardX - 1
	right := g.lay.queueRect().Right()

	title := g.Title()
	if c, ok := g.current(); ok {
		title = fmt.Sprintf("%s %d/%d: %s", title, g.level+1, len(g.levels), c.Name)
	}
	dst.DrawTextColor(left+(right-left-len([]rune(title)))/2, 0, title, core.ColorWhite)

	scoreColor := core.ColorDefault
	if snap.Funds {
		scoreColor = core.ColorDanger
	}
	dst.DrawTextColor(left, 1, fmt.Sprintf("Score: %d", snap.Score), scoreColor)

	var info string
	if snap.Target > 0 || snap.Hidden != shapes.Infinite {
		info = fmt.Sprintf("Target: %d  Left: %d", snap.Target, len(snap.Queue)+snap.Hidden)
	} else {
		info = fmt.Sprintf("Lines: %d  Best: %d", snap.Stats.RowsCleared+snap.Stats.ColumnsCleared, snap.Stats.BestCombo)
	}
	dst.DrawText(max(right-len(info), left), 1, info)
}

func (g *Game) renderBoard(dst *core.Screen, snap engine.Snapshot) {
	dst.DrawBox(g.lay.boardRect(), core.ColorDim)

	for _, t := range snap.Board.Tiles() {
		x, y := g.tileOrigin(t.Position)
		switch {
		case t.Block.Filled:
			g.drawTile(dst, x, y, '█', blockColor(t.Block.Color))
		default:
			dst.SetColor(x, y, '·', core.ColorDim)
		}
		if a, ok := playing(t.Animations, snap.Now); ok {
			g.drawTile(dst, x, y, '▓', animColor(a, snap.Now))
		}
	}

	g.renderPreview(dst, snap)

	if !snap.Drag.Selected() && !snap.GameOver {
		x, y := g.tileOrigin(g.cursor)
		dst.SetColor(x, y, '[', core.ColorHighlight)
		dst.SetColor(x+1, y, ']', core.ColorHighlight)
	}
}

// renderPreview shows where the held shape would land.
func (g *Game) renderPreview(dst *core.Screen, snap engine.Snapshot) {
	st := snap.Drag
	switch st.Phase {
	case drag.PhaseDragging, drag.PhasePlacing:
	default:
		return
	}

	color := blockColor(st.Shape.Color())
	fill := '▒'
	if st.Phase == drag.PhasePlacing {
		fill = '█'
	} else if !st.Valid {
		color = core.ColorDanger
		fill = '░'
	}
	for _, p := range st.Hovered {
		x, y := g.tileOrigin(p)
		g.drawTile(dst, x, y, fill, color)
	}
	for _, p := range st.Invalid {
		x, y := g.tileOrigin(p)
		g.drawTile(dst, x, y, '×', core.ColorDanger)
	}
}

func (g *Game) renderQueue(dst *core.Screen, snap engine.Snapshot) {
	r := g.lay.queueRect()
	dst.DrawBox(r, core.ColorDim)

	for i := 0; i < g.lay.visible; i++ {
		x, y := g.slotOrigin(i)
		label := fmt.Sprintf(" %d", i+1)
		labelColor := core.ColorDim
		if i == g.slot {
			label = fmt.Sprintf("▸%d", i+1)
			labelColor = core.ColorHighlight
		}
		dst.DrawTextColor(x, y-1, label, labelColor)

		if i >= len(snap.Queue) {
			continue
		}
		qs := snap.Queue[i]
		held := snap.Drag.Selected() && snap.Drag.ShapeID == qs.ID
		for _, o := range qs.Shape.Offsets() {
			color := blockColor(qs.Shape.Color())
			fill := '█'
			if held {
				color, fill = core.ColorDim, '░'
			}
			g.drawTile(dst, x+o.DC*tileW, y+o.DR, fill, color)
		}
	}

	if snap.Hidden > 0 {
		dst.DrawTextColor(r.X+1, r.Bottom()-1, fmt.Sprintf("+%d", snap.Hidden), core.ColorDim)
	}
}

func (g *Game) renderFooter(dst *core.Screen) {
	y := max(g.lay.boardRect().Bottom(), g.lay.queueRect().Bottom())
	if msg := g.hud.message(); msg != "" {
		dst.DrawTextCenteredColor(y, msg, core.ColorHighlight)
		return
	}
	dst.DrawTextCenteredColor(y, "arrows move  enter pick/place  1-3 slot  e/q rotate  x discard", core.ColorDim)
}

func (g *Game) renderOverlay(dst *core.Screen, snap engine.Snapshot) {
	if !snap.GameOver {
		return
	}
	r := g.lay.boardRect()
	cx, cy := r.X+r.W/2, r.Y+r.H/2

	switch {
	case snap.Won && g.level < len(g.levels)-1:
		drawOverlay(dst, cx, cy, "CHALLENGE COMPLETE", fmt.Sprintf("Score %d", snap.Score), "Press R for the next one")
	case snap.Won:
		drawOverlay(dst, cx, cy, "ALL CHALLENGES DONE", fmt.Sprintf("Score %d", snap.Score), "Press R to play again")
	case snap.Target > 0:
		drawOverlay(dst, cx, cy, "OUT OF SHAPES", fmt.Sprintf("Score %d of %d", snap.Score, snap.Target), "Press R to retry")
	default:
		drawOverlay(dst, cx, cy, "GAME OVER", fmt.Sprintf("Score %d", snap.Score), "Press R to restart")
	}
}

// drawOverlay draws a boxed message centered on (cx, cy).
func drawOverlay(dst *core.Screen, cx, cy int, lines ...string) {
	width := 0
	for _, line := range lines {
		width = max(width, len([]rune(line)))
	}
	box := core.NewRect(cx-width/2-2, cy-len(lines)/2-1, width+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	for i, line := range lines {
		x := cx - len([]rune(line))/2
		dst.DrawTextColor(x, box.Y+1+i, line, core.ColorWhite)
	}
}

func (g *Game) tileOrigin(p board.Position) (x, y int) {
	return g.lay.boardX + (p.Col-1)*tileW, g.lay.boardY + p.Row - 1
}

func (g *Game) slotOrigin(i int) (x, y int) {
	return g.lay.slotOrigin(i)
}

func (g *Game) drawTile(dst *core.Screen, x, y int, r rune, c core.Color) {
	for i := 0; i < tileW; i++ {
		dst.SetColor(x+i, y, r, c)
	}
}

// playing returns the animation showing at now, if any has started.
func playing(anims []board.TileAnimation, now time.Time) (board.TileAnimation, bool) {
	for _, a := range anims {
		if !now.Before(a.StartTime) && !a.Expired(now) {
			return a, true
		}
	}
	return board.TileAnimation{}, false
}

// animColor flashes quad clears on every beat.
func animColor(a board.TileAnimation, now time.Time) core.Color {
	beat := a.BeatDuration()
	if beat <= 0 {
		return blockColor(a.Color)
	}
	if int(now.Sub(a.StartTime)/beat)%2 == 0 {
		return core.ColorHighlight
	}
	return blockColor(a.Color)
}
