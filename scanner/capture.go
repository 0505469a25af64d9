//go:build js && wasm

package scanner

import (
	"context"
	"errors"
	"image"
	"strconv"
	"syscall/js"
	"time"

	"github.com/esimov/docscan/pixels"
	"github.com/esimov/docscan/session"
	"github.com/google/uuid"
)

var errCameraNotReady = errors.New("camera is not ready")

// capture grabs the current video frame, runs it through the enhancement
// pipeline and appends it to the scanned pages.
func (c *Canvas) capture(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.flash()
	if c.checked("hapticFeedback") {
		c.vibrate(captureVibration)
	}

	frame, err := c.grabFrame()
	if err != nil {
		return err
	}
	c.scanner.SetOptions(c.options())

	page, err := c.scanner.Capture(frame)
	if err != nil {
		return err
	}
	// Show the processed frame in place of the raw one.
	c.canvas.Set("width", page.Image.Bounds().Dx())
	c.canvas.Set("height", page.Image.Bounds().Dy())
	c.ctx2d.Call("putImageData", pixels.ToImageData(page.Image), 0, 0)

	c.mu.Lock()
	c.thumbs[page.ID] = c.canvas.Call("toDataURL", "image/jpeg", c.jpegQuality()).String()
	c.mu.Unlock()

	c.pagesChanged()
	c.showStatus("📸 Captured!", statusSuccess)

	return nil
}

// grabFrame copies the current video frame into a new image.
func (c *Canvas) grabFrame() (*image.NRGBA, error) {
	width, height := c.video.Get("videoWidth").Int(), c.video.Get("videoHeight").Int()
	if width == 0 || height == 0 {
		return nil, errCameraNotReady
	}
	c.canvas.Set("width", width)
	c.canvas.Set("height", height)
	c.ctx2d.Call("drawImage", c.video, 0, 0)

	imageData := c.ctx2d.Call("getImageData", 0, 0, width, height)
	return pixels.FromImageData(imageData)
}

func (c *Canvas) flash() {
	overlay := c.el("flashOverlay")
	overlay.Get("classList").Call("add", "active")
	time.AfterFunc(flashTimeout, func() {
		overlay.Get("classList").Call("remove", "active")
	})
}

// toggleContinuous switches the continuous capture mode on or off.
func (c *Canvas) toggleContinuous() {
	if !c.burst.Active() {
		secs := c.floatValue("continuousInterval")
		c.burst.SetInterval(time.Duration(secs * float64(time.Second)))
	}
	active := c.burst.Toggle(c.ctx)

	indicator := c.el("continuousIndicator")
	btn := c.el("toggleContinuous")
	classes := btn.Get("classList")

	if active {
		indicator.Get("style").Set("display", "inline-flex")
		btn.Set("textContent", "⏸ Stop")
		classes.Call("remove", "btn-secondary")
		classes.Call("add", "btn-danger")
		return
	}
	indicator.Get("style").Set("display", "none")
	btn.Set("textContent", "🔄 Continuous")
	classes.Call("remove", "btn-danger")
	classes.Call("add", "btn-secondary")
}

// handleGridClick dispatches the clicks made over the scanned pages grid.
func (c *Canvas) handleGridClick(this js.Value, args []js.Value) any {
	target := args[0].Get("target")
	item := target.Call("closest", ".scanned-item")
	if !item.Truthy() {
		return nil
	}
	index, err := strconv.Atoi(item.Get("dataset").Get("index").String())
	if err != nil {
		return nil
	}

	action := target.Call("closest", "[data-action]")
	if !action.Truthy() {
		go c.showPreview(index)
		return nil
	}
	args[0].Call("stopPropagation")

	switch action.Get("dataset").Get("action").String() {
	case "edit":
		go c.openEdit(index)
	case "remove":
		go c.removePage(index)
	}
	return nil
}

// updateImageGrid rebuilds the thumbnails of the scanned pages.
func (c *Canvas) updateImageGrid() {
	grid := c.el("imageGrid")
	grid.Set("innerHTML", "")

	for i, page := range c.scanner.Pages().Pages() {
		item := c.doc.Call("createElement", "div")
		item.Set("className", "scanned-item")
		item.Get("dataset").Set("index", i)

		img := c.doc.Call("createElement", "img")
		img.Set("src", c.thumb(page))

		actions := c.doc.Call("createElement", "div")
		actions.Set("className", "item-actions")
		actions.Call("appendChild", c.actionButton("edit", "✏️"))
		actions.Call("appendChild", c.actionButton("remove", "×"))

		item.Call("appendChild", img)
		item.Call("appendChild", actions)
		grid.Call("appendChild", item)
	}
}

func (c *Canvas) actionButton(action, label string) js.Value {
	btn := c.doc.Call("createElement", "button")
	btn.Set("className", "action-btn")
	btn.Set("innerHTML", label)
	btn.Get("dataset").Set("action", action)
	return btn
}

// thumb returns the cached data URL of the page, encoding it on first use.
func (c *Canvas) thumb(page session.Page) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if url, ok := c.thumbs[page.ID]; ok {
		return url
	}
	url := c.dataURL(page.Image)
	c.thumbs[page.ID] = url
	return url
}

// dataURL encodes the image as a JPEG data URL through an offscreen canvas.
func (c *Canvas) dataURL(img *image.NRGBA) string {
	c.tmp.Set("width", img.Bounds().Dx())
	c.tmp.Set("height", img.Bounds().Dy())
	c.tmp.Call("getContext", "2d").Call("putImageData", pixels.ToImageData(img), 0, 0)

	return c.tmp.Call("toDataURL", "image/jpeg", c.jpegQuality()).String()
}

// pruneThumbs drops the cached thumbnails of the pages no longer collected.
func (c *Canvas) pruneThumbs() {
	live := make(map[uuid.UUID]struct{})
	for _, p := range c.scanner.Pages().Pages() {
		live[p.ID] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.thumbs {
		if _, ok := live[id]; !ok {
			delete(c.thumbs, id)
		}
	}
}

func (c *Canvas) removePage(index int) {
	if err := c.scanner.Pages().Remove(index); err != nil {
		c.Log(err.Error())
		return
	}
	c.pruneThumbs()
	c.pagesChanged()
}

func (c *Canvas) clearAll() {
	if !c.window.Call("confirm", "Delete all scans?").Bool() {
		return
	}
	c.scanner.Pages().Clear()
	c.pruneThumbs()
	c.pagesChanged()
	c.showStatus("🗑️ All scans deleted", statusSuccess)
}

// pagesChanged refreshes every element depending on the collected pages.
func (c *Canvas) pagesChanged() {
	c.updateImageGrid()
	c.updateScanCount()

	empty := c.scanner.Pages().Empty()
	c.setDisabled("batchSave", empty)
	c.setDisabled("exportPDF", empty)
	c.setDisabled("clearAll", empty)
}

func (c *Canvas) updateScanCount() {
	c.el("scanCount").Set("textContent", c.scanner.Pages().Len())
}

func (c *Canvas) showPreview(index int) {
	page, err := c.scanner.Pages().At(index)
	if err != nil {
		return
	}
	c.el("previewImage").Set("src", c.thumb(page))
	c.el("previewModal").Get("classList").Call("add", "active")
}

func (c *Canvas) closePreview() {
	c.el("previewModal").Get("classList").Call("remove", "active")
}

func (c *Canvas) jpegQuality() float64 {
	return float64(c.quality.Load()) / 100
}
