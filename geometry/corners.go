// Package geometry provides the page boundary heuristic and the geometric
// edits (crop and rotation) available in the page editor.
package geometry

import (
	"image"
)

// InsetMargin is the fraction of the frame treated as background on every side.
const InsetMargin = 0.1

// Point is a position in canvas pixel space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Corners holds the four corners of the detected document, clockwise from the top left one.
type Corners struct {
	TopLeft     Point
	TopRight    Point
	BottomRight Point
	BottomLeft  Point
}

// Points returns the corners in drawing order.
func (c Corners) Points() []Point {
	return []Point{c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft}
}

// FindDocumentCorners returns the document boundary for a frame of the given size.
// There is no actual edge detection: the document is assumed to fill
// the frame minus a fixed margin, which is what the capture guide asks for.
func FindDocumentCorners(width, height int) Corners {
	w, h := float64(width), float64(height)
	return Corners{
		TopLeft:     Pt(w*InsetMargin, h*InsetMargin),
		TopRight:    Pt(w*(1-InsetMargin), h*InsetMargin),
		BottomRight: Pt(w*(1-InsetMargin), h*(1-InsetMargin)),
		BottomLeft:  Pt(w*InsetMargin, h*(1-InsetMargin)),
	}
}

// InsetRect returns the integer rectangle covered by the inset corners.
func InsetRect(width, height int) image.Rectangle {
	w, h := float64(width), float64(height)
	x0, y0 := int(w*InsetMargin), int(h*InsetMargin)
	return image.Rect(x0, y0, x0+int(w*(1-2*InsetMargin)), y0+int(h*(1-2*InsetMargin)))
}

// PerspectiveCrop cuts the frame down to the detected document region.
// Since the corners always form an axis aligned rectangle, the correction
// reduces to a plain crop.
func PerspectiveCrop(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	r := InsetRect(b.Dx(), b.Dy()).Add(b.Min)
	if r.Empty() {
		return img
	}
	return subImage(img, r)
}
