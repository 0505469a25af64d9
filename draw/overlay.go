// Package draw renders the scanner overlays: the detected document outline
// with its corner markers and the dashed crop selection.
package draw

import (
	"image"
	"image/color"
	imgdraw "image/draw"

	"github.com/esimov/docscan/geometry"
	"github.com/fogleman/gg"
)

// Style describes how an overlay is stroked.
type Style struct {
	Color color.Color
	Width float64
	// Dash holds the on/off segment lengths. An empty pattern draws a solid line.
	Dash []float64
}

var (
	// CornerStyle is the style of the detected document outline.
	CornerStyle = Style{
		Color: color.NRGBA{R: 0x00, G: 0xcc, B: 0x66, A: 0xff},
		Width: 3,
		Dash:  []float64{10, 5},
	}
	// SelectionStyle is the style of the crop selection rectangle.
	SelectionStyle = Style{
		Color: color.NRGBA{R: 0x00, G: 0x66, B: 0xff, A: 0xff},
		Width: 3,
		Dash:  []float64{8, 8},
	}
)

// CornerRadius is the radius of the markers drawn over the document corners.
const CornerRadius = 8

// Outline strokes the closed quadrilateral defined by the corners and
// marks every corner with a filled dot.
func Outline(dst imgdraw.Image, c geometry.Corners, s Style) {
	dc := layer(dst, s)
	pts := c.Points()

	path(dc, pts)
	dc.Stroke()

	dc.SetDash()
	for _, p := range pts {
		dc.DrawCircle(p.X, p.Y, CornerRadius)
	}
	dc.Fill()

	compose(dst, dc)
}

// Rect strokes the rectangle spanned by the two drag points.
func Rect(dst imgdraw.Image, p0, p1 geometry.Point, s Style) {
	x, y, w, h := geometry.NormalizeRect(p0, p1)
	Polygon(dst, []geometry.Point{
		geometry.Pt(x, y),
		geometry.Pt(x+w, y),
		geometry.Pt(x+w, y+h),
		geometry.Pt(x, y+h),
	}, s)
}

// Polygon strokes the closed path through the points. The dash pattern
// continues across the vertices, the way a canvas path stroke does.
func Polygon(dst imgdraw.Image, pts []geometry.Point, s Style) {
	if len(pts) < 2 {
		return
	}
	dc := layer(dst, s)
	path(dc, pts)
	dc.Stroke()
	compose(dst, dc)
}

// layer returns a transparent drawing context covering dst, set up with the
// stroke style. Butt caps match the canvas default, so the dash gaps stay open.
func layer(dst image.Image, s Style) *gg.Context {
	b := dst.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.Translate(float64(-b.Min.X), float64(-b.Min.Y))

	dc.SetColor(s.Color)
	dc.SetLineWidth(s.Width)
	dc.SetLineCapButt()
	dc.SetLineJoinBevel()
	dc.SetDash(s.Dash...)

	return dc
}

func path(dc *gg.Context, pts []geometry.Point) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

// compose blends the overlay layer over the destination image.
func compose(dst imgdraw.Image, dc *gg.Context) {
	b := dst.Bounds()
	imgdraw.Draw(dst, b, dc.Image(), image.Point{}, imgdraw.Over)
}
