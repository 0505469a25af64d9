package geometry

import (
	"errors"
	"fmt"
	"image"
)

// ErrUnsupportedAngle is returned for rotations that are not a multiple of 90 degrees.
var ErrUnsupportedAngle = errors.New("unsupported rotation angle")

// Rotate turns the image clockwise by the given number of degrees.
// Negative values rotate counter clockwise. Quarter turns swap the image sides.
func Rotate(img *image.NRGBA, degrees int) (*image.NRGBA, error) {
	if degrees%90 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAngle, degrees)
	}
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		return rotate(img, true, func(x, y, w, h int) (int, int) { return h - 1 - y, x }), nil
	case 180:
		return rotate(img, false, func(x, y, w, h int) (int, int) { return w - 1 - x, h - 1 - y }), nil
	case 270:
		return rotate(img, true, func(x, y, w, h int) (int, int) { return y, w - 1 - x }), nil
	}
	b := img.Bounds()
	return subImage(img, b), nil
}

// rotate copies every source pixel to the destination position returned by fn.
func rotate(src *image.NRGBA, swap bool, fn func(x, y, w, h int) (int, int)) *image.NRGBA {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dw, dh := w, h
	if swap {
		dw, dh = h, w
	}
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := fn(x, y, w, h)
			si := y*src.Stride + x*4
			di := dy*dst.Stride + dx*4
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}
