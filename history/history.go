// Package history implements the bounded undo/redo stack of the page editor.
package history

import (
	"image"

	"github.com/esimov/docscan/pixels"
)

// DefaultCapacity is the number of edit states kept by the editor.
const DefaultCapacity = 20

// Snapshot is an immutable copy of the edited page at a given moment.
type Snapshot struct {
	img *image.NRGBA
}

// NewSnapshot stores a deep copy of the image.
func NewSnapshot(img *image.NRGBA) Snapshot {
	return Snapshot{img: pixels.Clone(img)}
}

// Image returns a fresh copy of the stored image, safe to be modified by the caller.
func (s Snapshot) Image() *image.NRGBA {
	if s.img == nil {
		return nil
	}
	return pixels.Clone(s.img)
}

// Width returns the snapshot width, or 0 for an empty snapshot.
func (s Snapshot) Width() int {
	if s.img == nil {
		return 0
	}
	return s.img.Bounds().Dx()
}

// Height returns the snapshot height, or 0 for an empty snapshot.
func (s Snapshot) Height() int {
	if s.img == nil {
		return 0
	}
	return s.img.Bounds().Dy()
}

// History is a linear undo list with a cursor pointing to the active state.
// Pushing a new state discards every state past the cursor.
type History struct {
	states   []Snapshot
	cursor   int
	capacity int
}

// New creates an empty history holding at most capacity states.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{cursor: -1, capacity: capacity}
}

// Push records the image as the new active state.
func (h *History) Push(img *image.NRGBA) {
	h.states = append(h.states[:h.cursor+1], NewSnapshot(img))
	h.cursor++

	if len(h.states) > h.capacity {
		h.states[0] = Snapshot{}
		h.states = h.states[1:]
		h.cursor--
	}
}

// Undo steps back to the previous state. It returns false when there is nothing to undo.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.cursor--
	return h.states[h.cursor], true
}

// Redo steps forward to the next state. It returns false when there is nothing to redo.
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.cursor++
	return h.states[h.cursor], true
}

// CanUndo reports whether a previous state is available.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a next state is available.
func (h *History) CanRedo() bool { return h.cursor < len(h.states)-1 }

// Current returns the active state.
func (h *History) Current() (Snapshot, bool) {
	if h.cursor < 0 {
		return Snapshot{}, false
	}
	return h.states[h.cursor], true
}

// Len returns the number of recorded states.
func (h *History) Len() int { return len(h.states) }

// Cursor returns the index of the active state, or -1 for an empty history.
func (h *History) Cursor() int { return h.cursor }

// Reset drops every recorded state.
func (h *History) Reset() {
	h.states = nil
	h.cursor = -1
}
