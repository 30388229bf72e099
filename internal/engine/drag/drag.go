// Package drag implements the pick-up, hover, place and return lifecycle of
// a single shape. Transitions that are illegal for the current phase leave
// the state untouched and report a reason.
package drag

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/placement"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

// Phase is one step of the drag lifecycle.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhasePickingUp
	PhaseDragging
	PhasePlacing
	PhaseReturning
)

var phaseNames = [...]string{"none", "picking-up", "dragging", "placing", "returning"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Reasons a transition was refused.
var (
	ErrBusy         = errors.New("a shape is already selected")
	ErrNoSelection  = errors.New("no shape selected")
	ErrWrongPhase   = errors.New("action not allowed in this phase")
	ErrBadGeometry  = errors.New("tile size must be positive")
	ErrEmptyShape   = errors.New("shape has no filled cells")
	ErrCommitFailed = errors.New("target is no longer free")
)

// Offsets is the layout snapshot taken when a shape is picked up. Pointer
// coordinates are in whatever unit the caller draws in (pixels, terminal
// cells); only ratios matter.
type Offsets struct {
	CenterX, CenterY float64 // pointer minus the shape anchor's top-left corner
	GridX, GridY     float64 // top-left corner of tile (1, 1)
	TileSize         float64
	Gap              float64
}

// ToGrid converts a pointer location into the grid position the shape
// anchor would occupy. The result may be out of bounds.
func (o Offsets) ToGrid(x, y float64) board.Position {
	step := o.TileSize + o.Gap
	col := int(math.Floor((x-o.CenterX-o.GridX)/step)) + 1
	row := int(math.Floor((y-o.CenterY-o.GridY)/step)) + 1
	return board.Position{Row: row, Col: col}
}

// Timing holds the caller supplied delays of the two-phase commit.
type Timing struct {
	SettleDelay time.Duration // release to board mutation
	SoundOffset time.Duration // release to click-into-place sound
	ReturnDelay time.Duration // release to end of return animation
}

// Commit is a placement that has been validated but not yet applied.
type Commit struct {
	Location   board.Position
	SettleAt   time.Time
	SoundAt    time.Time
	SoundFired bool
}

// State is a read-only copy of the controller.
type State struct {
	Phase    Phase
	Shape    shapes.Shape
	Index    int
	ShapeID  uint64
	Offsets  Offsets
	Pointer  [2]float64
	Hovered  []board.Position
	Invalid  []board.Position
	Valid    bool
	Location board.Position
	Located  bool
	Pending  *Commit
	ReturnAt time.Time
}

// Selected reports whether a shape is held in any phase.
func (s State) Selected() bool {
	return s.Phase != PhaseNone
}

// Placed is handed back by CompletePlacement for the caller to apply.
type Placed struct {
	Shape    shapes.Shape
	Index    int
	ShapeID  uint64
	Location board.Position
}

// Controller owns the one DragState of a session.
type Controller struct {
	st State
}

// New returns an idle controller.
func New() *Controller {
	return &Controller{}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.st.Phase
}

// State returns a copy safe to hand to readers.
func (c *Controller) State() State {
	s := c.st
	s.Hovered = slices.Clone(c.st.Hovered)
	s.Invalid = slices.Clone(c.st.Invalid)
	if c.st.Pending != nil {
		p := *c.st.Pending
		s.Pending = &p
	}
	return s
}

// Reset drops any selection and pending commit.
func (c *Controller) Reset() {
	c.st = State{}
}

// Select picks up a queued shape. The offsets are copied and used for the
// rest of the drag.
func (c *Controller) Select(index int, id uint64, s shapes.Shape, o Offsets) error {
	if c.st.Phase != PhaseNone {
		return ErrBusy
	}
	if o.TileSize <= 0 || o.TileSize+o.Gap <= 0 {
		return ErrBadGeometry
	}
	if s.CellCount() == 0 {
		return ErrEmptyShape
	}
	c.st = State{
		Phase:   PhasePickingUp,
		Shape:   s,
		Index:   index,
		ShapeID: id,
		Offsets: o,
	}
	return nil
}

// Move refreshes the hover preview for a new pointer location.
func (c *Controller) Move(x, y float64, b *board.Board) error {
	switch c.st.Phase {
	case PhasePickingUp, PhaseDragging:
	case PhaseNone:
		return ErrNoSelection
	default:
		return ErrWrongPhase
	}
	c.st.Phase = PhaseDragging
	c.st.Pointer = [2]float64{x, y}
	c.hover(c.st.Offsets.ToGrid(x, y), b)
	return nil
}

// MoveTo places the anchor directly on a grid position, for keyboard play.
func (c *Controller) MoveTo(loc board.Position, b *board.Board) error {
	switch c.st.Phase {
	case PhasePickingUp, PhaseDragging:
	case PhaseNone:
		return ErrNoSelection
	default:
		return ErrWrongPhase
	}
	c.st.Phase = PhaseDragging
	c.hover(loc, b)
	return nil
}

func (c *Controller) hover(loc board.Position, b *board.Board) {
	pv := placement.Evaluate(c.st.Shape, loc, b)
	c.st.Location = loc
	c.st.Located = true
	c.st.Hovered = pv.Hovered
	c.st.Invalid = pv.Invalid
	c.st.Valid = pv.Valid
}

// Release drops the shape at the last hovered location. A valid target
// stages a commit; anything else starts a return. The target is validated
// again against b.
func (c *Controller) Release(b *board.Board, now time.Time, t Timing) (Phase, error) {
	switch c.st.Phase {
	case PhaseDragging:
	case PhasePickingUp:
		c.startReturn(now, t)
		return PhaseReturning, nil
	case PhaseNone:
		return PhaseNone, ErrNoSelection
	default:
		return c.st.Phase, ErrWrongPhase
	}

	if !c.st.Located || !placement.IsValid(c.st.Shape, c.st.Location, b) {
		c.st.Valid = false
		c.startReturn(now, t)
		return PhaseReturning, nil
	}
	c.st.Phase = PhasePlacing
	c.st.Pending = &Commit{
		Location: c.st.Location,
		SettleAt: now.Add(t.SettleDelay),
		SoundAt:  now.Add(t.SoundOffset),
	}
	return PhasePlacing, nil
}

func (c *Controller) startReturn(now time.Time, t Timing) {
	c.st.Phase = PhaseReturning
	c.st.Pending = nil
	c.st.ReturnAt = now.Add(t.ReturnDelay)
}

// Cancel sends a held shape back to the queue without placing it.
func (c *Controller) Cancel(now time.Time, t Timing) error {
	switch c.st.Phase {
	case PhasePickingUp, PhaseDragging:
		c.startReturn(now, t)
		return nil
	case PhaseNone:
		return ErrNoSelection
	default:
		return ErrWrongPhase
	}
}

// SoundDue reports, once per commit, that the placement sound should play.
func (c *Controller) SoundDue(now time.Time) bool {
	p := c.st.Pending
	if p == nil || now.Before(p.SoundAt) {
		return false
	}
	return c.TakeSound()
}

// TakeSound marks the placement sound of a pending commit as played,
// whatever the time. It reports false if there is none or it already fired.
func (c *Controller) TakeSound() bool {
	p := c.st.Pending
	if c.st.Phase != PhasePlacing || p == nil || p.SoundFired {
		return false
	}
	p.SoundFired = true
	return true
}

// Settled reports whether the pending commit's settle delay has elapsed.
func (c *Controller) Settled(now time.Time) bool {
	return c.st.Phase == PhasePlacing && c.st.Pending != nil && !now.Before(c.st.Pending.SettleAt)
}

// Returned reports whether the return animation has finished.
func (c *Controller) Returned(now time.Time) bool {
	return c.st.Phase == PhaseReturning && !now.Before(c.st.ReturnAt)
}

// CompletePlacement ends a pending commit and returns what to apply. The
// controller goes back to none. The caller mutates the board.
func (c *Controller) CompletePlacement() (Placed, error) {
	if c.st.Phase != PhasePlacing || c.st.Pending == nil {
		return Placed{}, ErrWrongPhase
	}
	out := Placed{
		Shape:    c.st.Shape,
		Index:    c.st.Index,
		ShapeID:  c.st.ShapeID,
		Location: c.st.Pending.Location,
	}
	c.Reset()
	return out, nil
}

// CompleteReturn finishes a return.
func (c *Controller) CompleteReturn() error {
	if c.st.Phase != PhaseReturning {
		return ErrWrongPhase
	}
	c.Reset()
	return nil
}
