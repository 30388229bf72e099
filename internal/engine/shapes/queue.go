package shapes

import "github.com/tetrix-game/tetrix/internal/engine/board"

// Infinite is the queue size sentinel for an unbounded supply.
const Infinite = -1

// DefaultVisible is the number of shapes offered at once.
const DefaultVisible = 3

// QueuedShape is a shape waiting to be placed.
// IDs increase monotonically for the life of the Queue, across resets.
type QueuedShape struct {
	ID    uint64
	Shape Shape
}

// Queue holds the visible shape window and, in finite mode, the hidden
// remainder of the supply.
type Queue struct {
	gen     *Generator
	visible int
	size    int // Infinite or the total finite supply
	nextID  uint64
	shown   []QueuedShape
	hidden  []QueuedShape
}

// NewQueue creates and fills a queue. size is Infinite or a positive total.
func NewQueue(gen *Generator, visible, size int) *Queue {
	if visible < 1 {
		visible = DefaultVisible
	}
	q := &Queue{
		gen:     gen,
		visible: visible,
		nextID:  1,
	}
	q.Reset(size)
	return q
}

// Reset discards all shapes and regenerates the supply.
// IDs keep increasing from where they left off.
func (q *Queue) Reset(size int) {
	if size != Infinite && size < 0 {
		size = Infinite
	}
	q.size = size
	q.shown = nil
	q.hidden = nil

	if q.Infinite() {
		for range q.visible {
			q.shown = append(q.shown, q.generate())
		}
		return
	}
	for i := range size {
		qs := q.generate()
		if i < q.visible {
			q.shown = append(q.shown, qs)
		} else {
			q.hidden = append(q.hidden, qs)
		}
	}
}

// ResetWith replaces the supply with pre-made shapes in finite mode.
func (q *Queue) ResetWith(supply []Shape) {
	q.size = len(supply)
	q.shown = nil
	q.hidden = nil
	for i, s := range supply {
		qs := QueuedShape{ID: q.takeID(), Shape: s}
		if i < q.visible {
			q.shown = append(q.shown, qs)
		} else {
			q.hidden = append(q.hidden, qs)
		}
	}
}

func (q *Queue) generate() QueuedShape {
	return QueuedShape{ID: q.takeID(), Shape: q.gen.Next()}
}

func (q *Queue) takeID() uint64 {
	id := q.nextID
	q.nextID++
	return id
}

// Infinite reports whether the queue regenerates forever.
func (q *Queue) Infinite() bool {
	return q.size == Infinite
}

// Size returns the configured supply: Infinite or the finite total.
func (q *Queue) Size() int {
	return q.size
}

// VisibleCapacity returns the size of the visible window.
func (q *Queue) VisibleCapacity() int {
	return q.visible
}

// Visible returns a copy of the visible shapes.
func (q *Queue) Visible() []QueuedShape {
	return append([]QueuedShape(nil), q.shown...)
}

// Hidden returns the number of shapes not yet revealed. Infinite queues
// report Infinite.
func (q *Queue) Hidden() int {
	if q.Infinite() {
		return Infinite
	}
	return len(q.hidden)
}

// Len returns the number of visible shapes.
func (q *Queue) Len() int {
	return len(q.shown)
}

// At returns the visible shape at index i.
func (q *Queue) At(i int) (QueuedShape, bool) {
	if i < 0 || i >= len(q.shown) {
		return QueuedShape{}, false
	}
	return q.shown[i], true
}

// Consume removes the visible shape at i. Later shapes shift left and the
// window is topped up: a fresh shape in infinite mode, the next hidden
// shape in finite mode.
func (q *Queue) Consume(i int) (QueuedShape, bool) {
	qs, ok := q.At(i)
	if !ok {
		return QueuedShape{}, false
	}
	q.shown = append(q.shown[:i], q.shown[i+1:]...)

	switch {
	case q.Infinite():
		q.shown = append(q.shown, q.generate())
	case len(q.hidden) > 0:
		q.shown = append(q.shown, q.hidden[0])
		q.hidden = q.hidden[1:]
	}
	return qs, true
}

// Replace swaps the shape at i in place, keeping its ID.
func (q *Queue) Replace(i int, s Shape) bool {
	if i < 0 || i >= len(q.shown) {
		return false
	}
	q.shown[i].Shape = s
	return true
}

// Exhausted reports whether a finite queue has nothing left to offer.
func (q *Queue) Exhausted() bool {
	return !q.Infinite() && len(q.shown) == 0 && len(q.hidden) == 0
}

// ShapeRecord is the serialized form of a queued shape.
type ShapeRecord struct {
	ID      uint64   `json:"id"`
	Pattern []string `json:"pattern"`
}

// QueueRecord is the serialized form of a queue.
type QueueRecord struct {
	Size    int           `json:"size"`
	NextID  uint64        `json:"nextId"`
	Visible []ShapeRecord `json:"visible"`
	Hidden  []ShapeRecord `json:"hidden,omitempty"`
}

// Record exports the queue for persistence.
func (q *Queue) Record() QueueRecord {
	rec := QueueRecord{Size: q.size, NextID: q.nextID}
	for _, qs := range q.shown {
		rec.Visible = append(rec.Visible, ShapeRecord{ID: qs.ID, Pattern: qs.Shape.Pattern()})
	}
	for _, qs := range q.hidden {
		rec.Hidden = append(rec.Hidden, ShapeRecord{ID: qs.ID, Pattern: qs.Shape.Pattern()})
	}
	return rec
}

// IsZero reports whether the record carries no queue at all, as in a save
// written without one.
func (r QueueRecord) IsZero() bool {
	return r.Size == 0 && len(r.Visible) == 0 && len(r.Hidden) == 0
}

// Restore loads a persisted queue. Empty shapes are dropped, the visible
// window is topped up, and the ID counter is moved past every restored ID.
// A zero record keeps the current supply.
func (q *Queue) Restore(rec QueueRecord) {
	if rec.IsZero() {
		q.nextID = max(q.nextID, rec.NextID)
		return
	}
	q.size = rec.Size
	if q.size != Infinite && q.size < 0 {
		q.size = Infinite
	}
	q.nextID = max(q.nextID, rec.NextID)
	q.shown = q.fromRecords(rec.Visible)
	q.hidden = nil
	if !q.Infinite() {
		q.hidden = q.fromRecords(rec.Hidden)
	}
	if len(q.shown) > q.visible {
		q.shown = q.shown[:q.visible]
	}

	for len(q.shown) < q.visible {
		switch {
		case q.Infinite():
			q.shown = append(q.shown, q.generate())
		case len(q.hidden) > 0:
			q.shown = append(q.shown, q.hidden[0])
			q.hidden = q.hidden[1:]
		default:
			return
		}
	}
}

func (q *Queue) fromRecords(records []ShapeRecord) []QueuedShape {
	var out []QueuedShape
	for _, r := range records {
		s := ParsePattern(r.Pattern, board.ColorRed).Normalize()
		if s.CellCount() == 0 {
			continue
		}
		id := r.ID
		if id == 0 {
			id = q.takeID()
		}
		q.nextID = max(q.nextID, id+1)
		out = append(out, QueuedShape{ID: id, Shape: s})
	}
	return out
}
