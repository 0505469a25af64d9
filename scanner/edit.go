//go:build js && wasm

package scanner

import (
	"errors"
	"strconv"
	"syscall/js"

	"github.com/esimov/docscan/draw"
	"github.com/esimov/docscan/filter"
	"github.com/esimov/docscan/geometry"
	"github.com/esimov/docscan/pixels"
)

// setupEditListeners binds the controls of the edit dialog.
func (c *Canvas) setupEditListeners() {
	c.onClick("cropBtn", c.toggleCropMode)
	c.onClick("undoBtn", func() { c.edit(func() error { c.editor.Undo(); return nil }) })
	c.onClick("redoBtn", func() { c.edit(func() error { c.editor.Redo(); return nil }) })
	c.onClick("resetEdit", func() { c.edit(c.editor.Reset) })
	c.onClick("saveEdit", c.saveEdit)
	c.onClick("closeEdit", c.closeEdit)

	rotations := c.doc.Call("querySelectorAll", "#editModal [data-rotate]")
	for i := 0; i < rotations.Length(); i++ {
		btn := rotations.Index(i)
		deg, err := strconv.Atoi(btn.Get("dataset").Get("rotate").String())
		if err != nil {
			continue
		}
		c.listen(btn, "click", func(this js.Value, args []js.Value) any {
			go c.edit(func() error { return c.editor.Rotate(deg) })
			return nil
		}, false)
	}

	filters := c.doc.Call("querySelectorAll", "#editModal [data-filter]")
	for i := 0; i < filters.Length(); i++ {
		btn := filters.Index(i)
		kind, err := filter.ParseKind(btn.Get("dataset").Get("filter").String())
		if err != nil {
			c.Log(err.Error())
			continue
		}
		c.listen(btn, "click", func(this js.Value, args []js.Value) any {
			go c.edit(func() error { return c.editor.Filter(kind) })
			return nil
		}, false)
	}

	c.listen(c.editCanvas, "mousedown", c.pointerHandler(c.cropBegin, false), false)
	c.listen(c.editCanvas, "mousemove", c.pointerHandler(c.cropMove, false), false)
	c.listen(c.editCanvas, "mouseup", c.pointerHandler(c.cropFinish, false), false)
	c.listen(c.editCanvas, "touchstart", c.pointerHandler(c.cropBegin, true), true)
	c.listen(c.editCanvas, "touchmove", c.pointerHandler(c.cropMove, true), true)
	c.listen(c.editCanvas, "touchend", c.pointerHandler(c.cropFinish, true), true)

	c.listen(c.el("editModal"), "click", func(this js.Value, args []js.Value) any {
		if args[0].Get("target").Get("id").String() == "editModal" {
			go c.closeEdit()
		}
		return nil
	}, false)
}

// openEdit loads the page found at index into the edit dialog.
func (c *Canvas) openEdit(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editor.Open(index); err != nil {
		c.Log(err.Error())
		return
	}
	c.cropMode, c.cropStart, c.cropEnd = false, nil, nil
	c.redraw()
	c.el("editModal").Get("classList").Call("add", "active")
}

func (c *Canvas) closeEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.editor.Close()
	c.hideEdit()
}

func (c *Canvas) hideEdit() {
	c.el("editModal").Get("classList").Call("remove", "active")
	c.cropMode, c.cropStart, c.cropEnd = false, nil, nil
	c.el("cropBtn").Get("classList").Call("remove", "active")
}

// edit runs one editor operation and refreshes the dialog.
func (c *Canvas) edit(op func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.editor.Editing() {
		return
	}
	if err := op(); err != nil {
		c.Log(err.Error())
		return
	}
	c.redraw()
}

func (c *Canvas) saveEdit() {
	c.mu.Lock()
	page, err := c.scanner.Pages().At(c.editor.Index())
	if err == nil {
		err = c.editor.Save()
	}
	if err != nil {
		c.mu.Unlock()
		c.Log(err.Error())
		return
	}
	delete(c.thumbs, page.ID)
	c.hideEdit()
	c.mu.Unlock()

	c.pagesChanged()
	c.showStatus("✅ Edit saved", statusSuccess)
	c.vibrate(saveVibration)
}

// redraw paints the current edit state and syncs the undo/redo buttons.
// The caller must hold c.mu.
func (c *Canvas) redraw() {
	img := c.editor.Image()
	if img == nil {
		return
	}
	c.editCanvas.Set("width", img.Bounds().Dx())
	c.editCanvas.Set("height", img.Bounds().Dy())
	c.ctxEdit.Call("putImageData", pixels.ToImageData(img), 0, 0)

	c.setDisabled("undoBtn", !c.editor.CanUndo())
	c.setDisabled("redoBtn", !c.editor.CanRedo())
}

func (c *Canvas) toggleCropMode() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cropMode = !c.cropMode
	btn := c.el("cropBtn").Get("classList")
	if c.cropMode {
		btn.Call("add", "active")
		c.editCanvas.Get("style").Set("cursor", "crosshair")
		return
	}
	btn.Call("remove", "active")
	c.editCanvas.Get("style").Set("cursor", "default")
	c.cropStart, c.cropEnd = nil, nil
}

// pointerHandler converts mouse and touch events into edit canvas coordinates.
func (c *Canvas) pointerHandler(fn func(p geometry.Point, ok bool), touch bool) func(this js.Value, args []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		event := args[0]
		if touch {
			event.Call("preventDefault")
		}

		source := event
		if touch {
			source = event.Get("touches").Index(0)
		}
		if !source.Truthy() {
			// touchend carries no active touch.
			go fn(geometry.Point{}, false)
			return nil
		}

		rect := c.editCanvas.Call("getBoundingClientRect")
		p := geometry.ClientToImage(
			geometry.Pt(
				source.Get("clientX").Float()-rect.Get("left").Float(),
				source.Get("clientY").Float()-rect.Get("top").Float(),
			),
			rect.Get("width").Float(), rect.Get("height").Float(),
			c.editCanvas.Get("width").Int(), c.editCanvas.Get("height").Int(),
		)
		go fn(p, true)
		return nil
	}
}

func (c *Canvas) cropBegin(p geometry.Point, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cropMode || !ok {
		return
	}
	c.cropStart, c.cropEnd = &p, nil
}

func (c *Canvas) cropMove(p geometry.Point, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cropMode || c.cropStart == nil || !ok {
		return
	}
	c.cropEnd = &p
	c.drawCropOverlay()
}

// cropFinish applies the dragged selection and leaves the crop mode.
func (c *Canvas) cropFinish(_ geometry.Point, _ bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cropMode || c.cropStart == nil || c.cropEnd == nil {
		return
	}
	err := c.editor.Crop(*c.cropStart, *c.cropEnd)
	if err != nil && !errors.Is(err, geometry.ErrSelectionTooSmall) {
		c.Log(err.Error())
	}
	c.cropMode, c.cropStart, c.cropEnd = false, nil, nil
	c.el("cropBtn").Get("classList").Call("remove", "active")
	c.editCanvas.Get("style").Set("cursor", "default")
	c.redraw()
}

// drawCropOverlay paints the selection rectangle over the current edit state.
// The caller must hold c.mu.
func (c *Canvas) drawCropOverlay() {
	img := c.editor.Image()
	if img == nil {
		return
	}
	c.ctxEdit.Call("putImageData", pixels.ToImageData(img), 0, 0)

	x, y, w, h := geometry.NormalizeRect(*c.cropStart, *c.cropEnd)
	style := draw.SelectionStyle

	c.ctxEdit.Set("strokeStyle", cssColor(style.Color))
	c.ctxEdit.Set("lineWidth", style.Width)
	c.ctxEdit.Call("setLineDash", dashPattern(style.Dash))
	c.ctxEdit.Call("strokeRect", x, y, w, h)
	c.ctxEdit.Call("setLineDash", js.ValueOf([]any{}))
}
