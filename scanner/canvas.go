//go:build js && wasm

package scanner

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall/js"
	"time"

	"github.com/esimov/docscan/draw"
	"github.com/esimov/docscan/export"
	"github.com/esimov/docscan/filter"
	"github.com/esimov/docscan/geometry"
	"github.com/esimov/docscan/session"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Canvas struct holds the Javascript objects needed by the scanner page
type Canvas struct {
	done   chan struct{}
	succCh chan struct{}
	errCh  chan error

	ctx    context.Context
	cancel context.CancelFunc

	// DOM elements
	window    js.Value
	doc       js.Value
	body      js.Value
	navigator js.Value

	// Canvas properties
	canvas       js.Value
	cornerCanvas js.Value
	editCanvas   js.Value
	tmp          js.Value
	ctx2d        js.Value
	ctxCorner    js.Value
	ctxEdit      js.Value
	reqID        js.Value
	renderer     js.Func
	funcs        []js.Func

	// Webcam properties
	video  js.Value
	stream js.Value

	logger  *logrus.Logger
	scanner *session.Scanner
	editor  *session.Editor
	burst   *session.Burst
	quality atomic.Int32

	// mu guards the editor state and the thumbnail cache.
	mu        sync.Mutex
	thumbs    map[uuid.UUID]string
	cropMode  bool
	cropStart *geometry.Point
	cropEnd   *geometry.Point
}

type statusKind string

const (
	statusSuccess statusKind = "success"
	statusError   statusKind = "error"

	statusTimeout = 3 * time.Second
	flashTimeout  = 150 * time.Millisecond
)

var (
	captureVibration = []any{30, 10, 30}
	saveVibration    = []any{40, 20, 40}
)

// NewCanvas looks up the scanner elements and initializes the Canvas.
func NewCanvas() *Canvas {
	var c Canvas
	c.window = js.Global()
	c.doc = c.window.Get("document")
	c.body = c.doc.Get("body")
	c.navigator = c.window.Get("navigator")

	c.video = c.el("video")
	c.canvas = c.el("canvas")
	c.cornerCanvas = c.el("cornerCanvas")
	c.editCanvas = c.el("editCanvas")
	c.tmp = c.doc.Call("createElement", "canvas")

	c.ctx2d = c.canvas.Call("getContext", "2d")
	c.ctxCorner = c.cornerCanvas.Call("getContext", "2d")
	c.ctxEdit = c.editCanvas.Call("getContext", "2d")

	c.logger = logrus.New()
	c.logger.SetOutput(console{c.window.Get("console")})
	c.logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})

	pages := session.NewCollection(c.logger)
	c.scanner = session.NewScanner(pages, filter.DefaultOptions(), c.logger)
	c.editor = session.NewEditor(pages)
	c.burst = session.NewBurst(session.DefaultInterval, c.capture, c.logger)
	c.thumbs = make(map[uuid.UUID]string)
	c.quality.Store(export.DefaultQuality)

	c.ctx, c.cancel = context.WithCancel(context.Background())
	return &c
}

// Render registers the page event handlers and runs the corner overlay loop
// through the `requestAnimationFrame` Javascript function until Stop is called.
func (c *Canvas) Render() error {
	c.done = make(chan struct{})

	c.renderer = js.FuncOf(func(this js.Value, args []js.Value) any {
		c.reqID = c.window.Call("requestAnimationFrame", c.renderer)
		c.drawCorners()
		return nil
	})
	// Release renderer to free up resources.
	defer c.renderer.Release()

	c.setupEventListeners()
	c.updateScanCount()
	go c.loadSettings()

	c.window.Call("requestAnimationFrame", c.renderer)
	<-c.done

	for _, fn := range c.funcs {
		fn.Release()
	}
	return nil
}

// Stop stops the rendering, the continuous capture and the camera stream.
func (c *Canvas) Stop() {
	c.window.Call("cancelAnimationFrame", c.reqID)
	c.cancel()
	c.burst.Stop()

	if c.stream.Truthy() {
		tracks := c.stream.Call("getTracks")
		for i := 0; i < tracks.Length(); i++ {
			tracks.Index(i).Call("stop")
		}
	}
	close(c.done)
}

// StartWebcam reads the webcam data and feeds it into the video element.
// It returns the canvas in case of success and error in case of failure.
func (c *Canvas) StartWebcam() (*Canvas, error) {
	var err error
	c.succCh = make(chan struct{})
	c.errCh = make(chan error)

	// If we don't do this, the stream will not be played.
	c.video.Set("autoplay", 1)
	c.video.Set("playsinline", 1) // important for iPhones

	success := js.FuncOf(func(this js.Value, args []js.Value) any {
		go func() {
			c.stream = args[0]
			c.video.Set("srcObject", args[0])
			c.video.Call("play")
			c.succCh <- struct{}{}
		}()
		return nil
	})
	defer success.Release()

	failure := js.FuncOf(func(this js.Value, args []js.Value) any {
		go func() {
			err = fmt.Errorf("failed initialising the camera: %s", args[0].String())
			c.errCh <- err
		}()
		return nil
	})
	defer failure.Release()

	opts := js.ValueOf(map[string]any{
		"audio": false,
		"video": map[string]any{
			"facingMode": "environment",
			"width":      map[string]any{"ideal": 1920},
			"height":     map[string]any{"ideal": 1080},
		},
	})

	promise := c.navigator.Get("mediaDevices").Call("getUserMedia", opts)
	promise.Call("then", success, failure)

	select {
	case <-c.succCh:
		return c, nil
	case err := <-c.errCh:
		return nil, err
	}
}

// drawCorners draws the detected document boundary over the live video.
func (c *Canvas) drawCorners() {
	width, height := c.video.Get("videoWidth").Int(), c.video.Get("videoHeight").Int()
	if width == 0 || height == 0 {
		return
	}
	if c.cornerCanvas.Get("width").Int() != width || c.cornerCanvas.Get("height").Int() != height {
		c.cornerCanvas.Set("width", width)
		c.cornerCanvas.Set("height", height)
	}
	c.ctxCorner.Call("clearRect", 0, 0, width, height)

	if !c.checked("autoEdge") || c.video.Get("paused").Bool() || c.video.Get("ended").Bool() {
		return
	}
	corners := geometry.FindDocumentCorners(width, height)
	style := draw.CornerStyle

	c.ctxCorner.Set("strokeStyle", cssColor(style.Color))
	c.ctxCorner.Set("lineWidth", style.Width)
	c.ctxCorner.Call("setLineDash", dashPattern(style.Dash))

	c.ctxCorner.Call("beginPath")
	for i, p := range corners.Points() {
		if i == 0 {
			c.ctxCorner.Call("moveTo", p.X, p.Y)
			continue
		}
		c.ctxCorner.Call("lineTo", p.X, p.Y)
	}
	c.ctxCorner.Call("closePath")
	c.ctxCorner.Call("stroke")

	c.ctxCorner.Call("setLineDash", js.ValueOf([]any{}))
	c.ctxCorner.Set("fillStyle", cssColor(style.Color))
	for _, p := range corners.Points() {
		c.ctxCorner.Call("beginPath")
		c.ctxCorner.Call("arc", p.X, p.Y, draw.CornerRadius, 0, 2*math.Pi)
		c.ctxCorner.Call("fill")
	}
}

// setupEventListeners binds the page controls to their handlers.
func (c *Canvas) setupEventListeners() {
	c.onClick("startCamera", c.startCamera)
	c.onClick("capture", func() {
		if err := c.capture(c.ctx); err != nil {
			c.Log(err.Error())
			c.showStatus("Capture failed", statusError)
		}
	})
	c.onClick("toggleContinuous", c.toggleContinuous)
	c.onClick("batchSave", func() { c.exportPages(formatZip) })
	c.onClick("exportPDF", func() { c.exportPages(formatPDF) })
	c.onClick("clearAll", c.clearAll)

	for _, id := range []string{"brightness", "contrast", "sharpness", "continuousInterval"} {
		c.listen(c.el(id), "input", c.sliderLabel(id), false)
	}

	c.listen(c.el("imageGrid"), "click", c.handleGridClick, false)
	c.listen(c.el("previewModal"), "click", func(this js.Value, args []js.Value) any {
		if args[0].Get("target").Get("id").String() == "previewModal" {
			c.closePreview()
		}
		return nil
	}, false)

	c.setupEditListeners()
}

func (c *Canvas) startCamera() {
	if _, err := c.StartWebcam(); err != nil {
		c.Log(err.Error())
		c.showStatus("Cannot access the camera", statusError)
		return
	}
	c.setDisabled("startCamera", true)
	c.setDisabled("capture", false)
	c.setDisabled("toggleContinuous", false)
	c.showStatus("Camera started ✨", statusSuccess)
}

// sliderLabel mirrors the value of a range input into its label element.
func (c *Canvas) sliderLabel(id string) func(this js.Value, args []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		c.setLabel(id, args[0].Get("target").Get("value").String())
		return nil
	}
}

func (c *Canvas) setLabel(id, value string) {
	switch id {
	case "contrast":
		value += "%"
	case "continuousInterval":
		value += "s"
	}
	c.el(id+"Value").Set("textContent", value)
}

// loadSettings applies the defaults served by `docscan serve` to the page controls.
// Pages served by another web server keep the values found in the markup.
func (c *Canvas) loadSettings() {
	resp, err := c.await(c.window.Call("fetch", "api/settings"))
	if err != nil || !resp.Get("ok").Bool() {
		return
	}
	data, err := c.await(resp.Call("json"))
	if err != nil {
		c.Log(err.Error())
		return
	}

	for _, id := range []string{"brightness", "contrast", "sharpness", "continuousInterval"} {
		if v := data.Get(id); v.Type() == js.TypeNumber {
			value := strconv.FormatFloat(v.Float(), 'f', -1, 64)
			c.el(id).Set("value", value)
			c.setLabel(id, value)
		}
	}
	for _, id := range []string{"glareReduction", "grayscale", "autoEdge"} {
		if v := data.Get(id); v.Type() == js.TypeBoolean {
			c.el(id).Set("checked", v.Bool())
		}
	}
	if v := data.Get("continuousInterval"); v.Type() == js.TypeNumber {
		c.burst.SetInterval(time.Duration(v.Float() * float64(time.Second)))
	}
	if v := data.Get("quality"); v.Type() == js.TypeNumber {
		c.quality.Store(int32(v.Int()))
	}
}

// await blocks until the promise settles. It must not be called from a JS callback.
func (c *Canvas) await(promise js.Value) (js.Value, error) {
	valCh := make(chan js.Value, 1)
	errCh := make(chan error, 1)

	success := js.FuncOf(func(this js.Value, args []js.Value) any {
		valCh <- args[0]
		return nil
	})
	defer success.Release()

	failure := js.FuncOf(func(this js.Value, args []js.Value) any {
		errCh <- fmt.Errorf("promise rejected: %s", args[0].Call("toString").String())
		return nil
	})
	defer failure.Release()

	promise.Call("then", success, failure)

	select {
	case v := <-valCh:
		return v, nil
	case err := <-errCh:
		return js.Undefined(), err
	case <-c.ctx.Done():
		return js.Undefined(), c.ctx.Err()
	}
}

// options reads the capture settings from the page controls.
func (c *Canvas) options() filter.Options {
	return filter.Options{
		Brightness:     c.intValue("brightness"),
		Contrast:       c.intValue("contrast"),
		Sharpness:      c.intValue("sharpness"),
		GlareReduction: c.checked("glareReduction"),
		Grayscale:      c.checked("grayscale"),
		AutoEdge:       c.checked("autoEdge"),
	}
}

// showStatus displays a message which disappears after a few seconds.
func (c *Canvas) showStatus(msg string, kind statusKind) {
	status := c.el("statusMessage")
	status.Set("className", "status-message status-"+string(kind))
	status.Set("textContent", msg)
	status.Get("style").Set("display", "block")

	time.AfterFunc(statusTimeout, func() {
		status.Get("style").Set("display", "none")
	})
}

func (c *Canvas) vibrate(pattern []any) {
	if c.navigator.Get("vibrate").Truthy() {
		c.navigator.Call("vibrate", js.ValueOf(pattern))
	}
}

// onClick registers a click handler. The handler runs on its own goroutine,
// so it is free to block.
func (c *Canvas) onClick(id string, fn func()) {
	c.listen(c.el(id), "click", func(this js.Value, args []js.Value) any {
		go fn()
		return nil
	}, false)
}

func (c *Canvas) listen(target js.Value, event string, fn func(this js.Value, args []js.Value) any, active bool) {
	handler := js.FuncOf(fn)
	c.funcs = append(c.funcs, handler)

	if active {
		target.Call("addEventListener", event, handler, map[string]any{"passive": false})
		return
	}
	target.Call("addEventListener", event, handler)
}

func (c *Canvas) el(id string) js.Value {
	return c.doc.Call("getElementById", id)
}

func (c *Canvas) checked(id string) bool {
	return c.el(id).Get("checked").Bool()
}

func (c *Canvas) intValue(id string) int {
	v, err := strconv.Atoi(c.el(id).Get("value").String())
	if err != nil {
		return 0
	}
	return v
}

func (c *Canvas) floatValue(id string) float64 {
	v, err := strconv.ParseFloat(c.el(id).Get("value").String(), 64)
	if err != nil {
		return 0
	}
	return v
}

func (c *Canvas) setDisabled(id string, disabled bool) {
	c.el(id).Set("disabled", disabled)
}

// Log calls the `console.log` Javascript function
func (c *Canvas) Log(args ...any) {
	c.window.Get("console").Call("log", args...)
}

// Alert calls the `alert` Javascript function
func (c *Canvas) Alert(args ...any) {
	alert := c.window.Get("alert")
	alert.Invoke(args...)
}

// console forwards the log output to the browser console.
type console struct {
	js.Value
}

func (c console) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	c.Call("log", string(p))
	return n, nil
}

func cssColor(col color.Color) string {
	c := color.NRGBAModel.Convert(col).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func dashPattern(dash []float64) js.Value {
	pattern := make([]any, len(dash))
	for i, d := range dash {
		pattern[i] = d
	}
	return js.ValueOf(pattern)
}
