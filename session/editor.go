package session

import (
	"errors"
	"image"

	"github.com/esimov/docscan/filter"
	"github.com/esimov/docscan/geometry"
	"github.com/esimov/docscan/history"
	"github.com/esimov/docscan/pixels"
)

// ErrNotEditing is returned by the editor operations when no page is open.
var ErrNotEditing = errors.New("no page is being edited")

// Editor applies crop, rotation and filter edits to a single page, keeping
// an undo history. Edits are only written back to the collection on Save.
type Editor struct {
	pages    *Collection
	hist     *history.History
	index    int
	img      *image.NRGBA
	rotation int
}

// NewEditor creates an editor working on the pages of the collection.
func NewEditor(pages *Collection) *Editor {
	return &Editor{
		pages: pages,
		hist:  history.New(history.DefaultCapacity),
		index: -1,
	}
}

// Open starts editing the page found at index i. The history is reset and
// the unedited page becomes its first state.
func (e *Editor) Open(i int) error {
	p, err := e.pages.At(i)
	if err != nil {
		return err
	}
	e.index = i
	e.rotation = 0
	e.img = pixels.Clone(p.Image)
	e.hist.Reset()
	e.hist.Push(e.img)

	return nil
}

// Editing reports whether a page is open.
func (e *Editor) Editing() bool { return e.index >= 0 }

// Index returns the index of the page being edited, or -1.
func (e *Editor) Index() int { return e.index }

// Image returns the current state of the edited page.
func (e *Editor) Image() *image.NRGBA { return e.img }

// Rotation returns the accumulated rotation of the page, in degrees.
func (e *Editor) Rotation() int { return e.rotation }

// CanUndo reports whether the undo action is available.
func (e *Editor) CanUndo() bool { return e.Editing() && e.hist.CanUndo() }

// CanRedo reports whether the redo action is available.
func (e *Editor) CanRedo() bool { return e.Editing() && e.hist.CanRedo() }

// Crop cuts the page to the selection dragged between p0 and p1.
// Selections smaller than geometry.MinSelection are ignored and not recorded.
func (e *Editor) Crop(p0, p1 geometry.Point) error {
	if !e.Editing() {
		return ErrNotEditing
	}
	img, err := geometry.Crop(e.img, p0, p1)
	if err != nil {
		return err
	}
	e.commit(img)
	return nil
}

// Rotate turns the page by the given multiple of 90 degrees.
func (e *Editor) Rotate(degrees int) error {
	if !e.Editing() {
		return ErrNotEditing
	}
	img, err := geometry.Rotate(e.img, degrees)
	if err != nil {
		return err
	}
	e.rotation = ((e.rotation+degrees)%360 + 360) % 360
	e.commit(img)
	return nil
}

// Filter applies one of the editor filters to the page.
func (e *Editor) Filter(kind filter.Kind) error {
	if !e.Editing() {
		return ErrNotEditing
	}
	img, err := filter.Apply(kind, pixels.Clone(e.img))
	if err != nil {
		return err
	}
	e.commit(img)
	return nil
}

// Undo restores the previous edit state. It reports whether anything changed.
func (e *Editor) Undo() bool {
	if !e.Editing() {
		return false
	}
	s, ok := e.hist.Undo()
	if ok {
		e.img = s.Image()
	}
	return ok
}

// Redo restores the next edit state. It reports whether anything changed.
func (e *Editor) Redo() bool {
	if !e.Editing() {
		return false
	}
	s, ok := e.hist.Redo()
	if ok {
		e.img = s.Image()
	}
	return ok
}

// Reset discards every edit and reloads the stored page with a fresh history.
func (e *Editor) Reset() error {
	if !e.Editing() {
		return ErrNotEditing
	}
	return e.Open(e.index)
}

// Save writes the current state back to the collection and closes the editor.
func (e *Editor) Save() error {
	if !e.Editing() {
		return ErrNotEditing
	}
	if err := e.pages.Replace(e.index, pixels.Clone(e.img)); err != nil {
		return err
	}
	e.Close()
	return nil
}

// Close leaves the editor without saving.
func (e *Editor) Close() {
	e.index = -1
	e.img = nil
	e.rotation = 0
	e.hist.Reset()
}

func (e *Editor) commit(img *image.NRGBA) {
	e.img = img
	e.hist.Push(img)
}
