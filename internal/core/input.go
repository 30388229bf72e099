package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // W, Up arrow - move the cursor
	ActionDown            // S, Down arrow
	ActionLeft            // A, Left arrow
	ActionRight           // D, Right arrow
	ActionConfirm         // Enter, Space - pick up or drop a shape
	ActionCancel          // Escape - send a held shape back
	ActionNextSlot        // Tab - cycle the selected queue slot
	ActionRotateCW        // E
	ActionRotateCCW       // Q
	ActionDiscard         // X
	ActionSave            // Ctrl+S
	ActionRestart         // R - new game after game over
	ActionQuit            // Ctrl+C
)

var actionNames = map[Action]string{
	ActionNone:      "None",
	ActionUp:        "Up",
	ActionDown:      "Down",
	ActionLeft:      "Left",
	ActionRight:     "Right",
	ActionConfirm:   "Confirm",
	ActionCancel:    "Cancel",
	ActionNextSlot:  "NextSlot",
	ActionRotateCW:  "RotateCW",
	ActionRotateCCW: "RotateCCW",
	ActionDiscard:   "Discard",
	ActionSave:      "Save",
	ActionRestart:   "Restart",
	ActionQuit:      "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// PointerKind distinguishes mouse events.
type PointerKind uint8

const (
	PointerPress PointerKind = iota
	PointerMotion
	PointerRelease
)

// PointerEvent is a mouse event in screen cell coordinates.
type PointerEvent struct {
	Kind PointerKind
	X, Y int
}

// NoSlot means no queue slot was chosen directly this frame.
const NoSlot = -1

// InputFrame is everything the player did during one tick.
type InputFrame struct {
	Actions  map[Action]bool
	Slot     int // queue slot picked with a number key, or NoSlot
	Pointers []PointerEvent
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
		Slot:    NoSlot,
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Pick records a direct slot choice.
func (f *InputFrame) Pick(slot int) {
	f.Slot = slot
}

// Point appends a mouse event. Events are kept in arrival order.
func (f *InputFrame) Point(kind PointerKind, x, y int) {
	f.Pointers = append(f.Pointers, PointerEvent{Kind: kind, X: x, Y: y})
}

// Empty reports whether nothing happened this frame.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && f.Slot == NoSlot && len(f.Pointers) == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	clear(f.Actions)
	f.Slot = NoSlot
	f.Pointers = f.Pointers[:0]
}
