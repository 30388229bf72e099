package engine

import (
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/drag"
)

// Action is an intent dispatched to the Engine. The set is closed: only the
// types in this file implement it.
type Action interface {
	action()
}

// SelectShape picks up the visible queued shape at Index. Offsets is the
// layout snapshot used for the rest of the drag.
type SelectShape struct {
	Index   int
	Offsets drag.Offsets
}

// UpdatePointer moves the held shape to a pointer location.
type UpdatePointer struct {
	X, Y float64
}

// HoverAt moves the held shape's anchor straight to a grid position.
type HoverAt struct {
	Position board.Position
}

// PlaceShape releases the held shape at its current location.
type PlaceShape struct{}

// CompletePlacement applies a pending commit to the board.
type CompletePlacement struct{}

// ReturnShape cancels a drag and sends the shape back to the queue.
type ReturnShape struct{}

// CompleteReturn ends a return animation.
type CompleteReturn struct{}

// SpendPoints pays for an ability out of the score.
type SpendPoints struct {
	Amount int
	Reason string
}

// RotateShape turns a queued shape a quarter turn.
type RotateShape struct {
	Index     int
	Clockwise bool
}

// DiscardShape throws a queued shape away in exchange for the next one.
type DiscardShape struct {
	Index int
}

// AddScore credits points.
type AddScore struct {
	Points int
}

// SubtractScore debits points, stopping at zero.
type SubtractScore struct {
	Points int
}

// ResetGame starts a new game.
type ResetGame struct{}

// Tick lets the caller's poll loop advance time-based state.
type Tick struct{}

func (SelectShape) action()       {}
func (UpdatePointer) action()     {}
func (HoverAt) action()           {}
func (PlaceShape) action()        {}
func (CompletePlacement) action() {}
func (ReturnShape) action()       {}
func (CompleteReturn) action()    {}
func (SpendPoints) action()       {}
func (RotateShape) action()       {}
func (DiscardShape) action()      {}
func (AddScore) action()          {}
func (SubtractScore) action()     {}
func (ResetGame) action()         {}
func (Tick) action()              {}
