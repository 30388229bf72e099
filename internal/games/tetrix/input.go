package tetrix

import (
	"github.com/tetrix-game/tetrix/internal/core"
	"github.com/tetrix-game/tetrix/internal/engine"
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/drag"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

// Terminal cells are twice as tall as they are wide, so pointer positions
// are converted to half-cell units where a tile is tileW by tileW.
func pointerX(x int) float64 { return float64(x) + 0.5 }
func pointerY(y int) float64 { return float64(y*2) + 1 }

// keyboardOffsets make HoverAt positions the anchor directly.
var keyboardOffsets = drag.Offsets{TileSize: 1}

func (g *Game) handlePointers(events []core.PointerEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case core.PointerPress:
			g.pointerPress(ev.X, ev.Y)
		case core.PointerMotion:
			if g.mouseDrag {
				g.eng.Dispatch(engine.UpdatePointer{X: pointerX(ev.X), Y: pointerY(ev.Y)})
				g.syncCursor()
			}
		case core.PointerRelease:
			if g.mouseDrag {
				g.mouseDrag = false
				g.hud.observe(g.eng.Dispatch(engine.PlaceShape{}))
			}
		}
	}
}

func (g *Game) pointerPress(x, y int) {
	if pos, ok := g.lay.tileAt(x, y); ok && !g.holding() {
		g.cursor = pos
		return
	}
	slot, ok := g.lay.slotAt(x, y)
	if !ok || g.holding() {
		return
	}
	if _, ok := g.queued(slot); !ok {
		return
	}

	// pointer offset from the drawn anchor, in half-cell units
	ax, ay := g.lay.slotOrigin(slot)
	o := drag.Offsets{
		CenterX:  pointerX(x) - float64(ax),
		CenterY:  pointerY(y) - float64(ay*2),
		GridX:    float64(g.lay.boardX),
		GridY:    float64(g.lay.boardY * 2),
		TileSize: tileW,
	}
	if res := g.eng.Dispatch(engine.SelectShape{Index: slot, Offsets: o}); !res.Rejected {
		g.slot = slot
		g.mouseDrag = true
	}
}

// syncCursor follows the dragged shape so keyboard play resumes from there.
func (g *Game) syncCursor() {
	st := g.eng.Snapshot().Drag
	if !st.Located {
		return
	}
	size := g.eng.Settings().GridSize
	g.cursor = board.P(core.Clamp(st.Location.Row, 1, size), core.Clamp(st.Location.Col, 1, size))
}

func (g *Game) handleKeys(in core.InputFrame) {
	if in.Slot != core.NoSlot && !g.holding() {
		if _, ok := g.queued(in.Slot); ok {
			g.slot = in.Slot
			g.pickUp()
		}
	}

	switch {
	case in.Has(core.ActionUp):
		g.moveCursor(-1, 0)
	case in.Has(core.ActionDown):
		g.moveCursor(1, 0)
	case in.Has(core.ActionLeft):
		g.moveCursor(0, -1)
	case in.Has(core.ActionRight):
		g.moveCursor(0, 1)
	}

	if in.Has(core.ActionNextSlot) && !g.holding() {
		if n := len(g.eng.Snapshot().Queue); n > 0 {
			g.slot = (g.slot + 1) % n
		}
	}

	if in.Has(core.ActionConfirm) {
		if g.holding() {
			g.mouseDrag = false
			g.hud.observe(g.eng.Dispatch(engine.PlaceShape{}))
		} else {
			g.pickUp()
		}
	}
	if in.Has(core.ActionCancel) && g.holding() {
		g.mouseDrag = false
		g.eng.Dispatch(engine.ReturnShape{})
	}

	if in.Has(core.ActionRotateCW) {
		g.hud.observe(g.eng.Dispatch(engine.RotateShape{Index: g.slot, Clockwise: true}))
	}
	if in.Has(core.ActionRotateCCW) {
		g.hud.observe(g.eng.Dispatch(engine.RotateShape{Index: g.slot}))
	}
	if in.Has(core.ActionDiscard) {
		g.hud.observe(g.eng.Dispatch(engine.DiscardShape{Index: g.slot}))
	}

	// after game over the platform restarts through Reset
	if in.Has(core.ActionRestart) && !g.eng.GameOver() {
		g.eng.Dispatch(engine.ResetGame{})
		g.slot = 0
		g.mouseDrag = false
		g.hud.say("New game")
	}
}

// pickUp lifts the selected slot onto the cursor.
func (g *Game) pickUp() {
	res := g.eng.Dispatch(engine.SelectShape{Index: g.slot, Offsets: keyboardOffsets})
	if res.Rejected {
		return
	}
	g.eng.Dispatch(engine.HoverAt{Position: g.cursor})
}

func (g *Game) moveCursor(dr, dc int) {
	size := g.eng.Settings().GridSize
	g.cursor = board.P(
		core.Clamp(g.cursor.Row+dr, 1, size),
		core.Clamp(g.cursor.Col+dc, 1, size),
	)
	if g.holding() && !g.mouseDrag {
		g.eng.Dispatch(engine.HoverAt{Position: g.cursor})
	}
}

func (g *Game) queued(slot int) (shapes.QueuedShape, bool) {
	q := g.eng.Snapshot().Queue
	if slot < 0 || slot >= len(q) {
		return shapes.QueuedShape{}, false
	}
	return q[slot], true
}
