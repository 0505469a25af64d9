package geometry

import (
	"errors"
	"image"
	"math"

	"github.com/esimov/docscan/pixels"
)

// MinSelection is the smallest width or height, in pixels, accepted for a crop.
const MinSelection = 10

// ErrSelectionTooSmall is returned when the crop selection is below MinSelection.
var ErrSelectionTooSmall = errors.New("crop selection too small")

// NormalizeRect returns the rectangle spanned by two drag points,
// regardless of the drag direction.
func NormalizeRect(p0, p1 Point) (x, y, w, h float64) {
	x = math.Min(p0.X, p1.X)
	y = math.Min(p0.Y, p1.Y)
	w = math.Abs(p1.X - p0.X)
	h = math.Abs(p1.Y - p0.Y)
	return
}

// SelectionRect converts the drag selection to a pixel rectangle in image space.
func SelectionRect(p0, p1 Point) image.Rectangle {
	x, y, w, h := NormalizeRect(p0, p1)
	x0, y0 := int(x), int(y)
	return image.Rect(x0, y0, x0+int(w), y0+int(h))
}

// Crop cuts the region selected between p0 and p1 out of the image.
// The selection is clipped to the image bounds. Selections narrower or
// shorter than MinSelection, before or after clipping, are rejected and
// the image is left as is.
func Crop(img *image.NRGBA, p0, p1 Point) (*image.NRGBA, error) {
	_, _, w, h := NormalizeRect(p0, p1)
	if w < MinSelection || h < MinSelection {
		return img, ErrSelectionTooSmall
	}
	b := img.Bounds()
	r := SelectionRect(p0, p1).Add(b.Min).Intersect(b)
	if r.Dx() < MinSelection || r.Dy() < MinSelection {
		return img, ErrSelectionTooSmall
	}
	return subImage(img, r), nil
}

// ClientToImage maps a pointer position, relative to the displayed element of
// the given size, into the pixel space of a canvas of canvasW x canvasH.
func ClientToImage(p Point, displayW, displayH float64, canvasW, canvasH int) Point {
	if displayW <= 0 || displayH <= 0 {
		return p
	}
	return Point{
		X: p.X * (float64(canvasW) / displayW),
		Y: p.Y * (float64(canvasH) / displayH),
	}
}

// subImage returns a standalone copy of the r region of img.
func subImage(img *image.NRGBA, r image.Rectangle) *image.NRGBA {
	return pixels.Clone(img.SubImage(r).(*image.NRGBA))
}
