// Package filter implements the pixel level transforms applied to the scanned pages.
// Every transform works on the flat RGBA buffer of an *image.NRGBA and leaves
// the alpha channel untouched.
package filter

import (
	"image"

	"github.com/esimov/docscan/pixels"
)

// glareThreshold is the average channel value above which a pixel is
// considered to be part of a specular highlight.
const glareThreshold = 200

// ReduceGlare tones down the overexposed regions of the image in place.
// Pixels brighter than the threshold are scaled down proportionally,
// preserving their hue.
func ReduceGlare(img *image.NRGBA) *image.NRGBA {
	eachPixel(img, func(px []uint8) {
		brightness := (float64(px[0]) + float64(px[1]) + float64(px[2])) / 3
		if brightness > glareThreshold {
			factor := glareThreshold / brightness
			px[0] = toUint8(float64(px[0]) * factor)
			px[1] = toUint8(float64(px[1]) * factor)
			px[2] = toUint8(float64(px[2]) * factor)
		}
	})
	return img
}

// AdjustBrightnessContrast remaps every channel around the mid gray value.
// The contrast is a multiplication factor (1 means unchanged) and the
// brightness an additive offset.
func AdjustBrightnessContrast(img *image.NRGBA, brightness int, contrast float64) *image.NRGBA {
	var lut [256]uint8
	for v := range lut {
		lut[v] = toUint8((float64(v)-128)*contrast + 128 + float64(brightness))
	}
	eachPixel(img, func(px []uint8) {
		px[0], px[1], px[2] = lut[px[0]], lut[px[1]], lut[px[2]]
	})
	return img
}

// Sharpen convolves the image with a 3x3 laplacian sharpening kernel
// weighted by amount. The one pixel border is copied from the source.
func Sharpen(img *image.NRGBA, amount float64) *image.NRGBA {
	if amount <= 0 {
		return img
	}
	src := pixels.Clone(img)
	dst := pixels.Clone(img)

	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	if width < 3 || height < 3 {
		return dst
	}
	center := 1 + 4*amount

	eachRow(dst, func(y0, y1 int) {
		for y := max(y0, 1); y < min(y1, height-1); y++ {
			up, row, down := (y-1)*src.Stride, y*src.Stride, (y+1)*src.Stride
			for x := 1; x < width-1; x++ {
				i := x * 4
				for c := 0; c < 3; c++ {
					sum := float64(src.Pix[row+i+c])*center -
						amount*(float64(src.Pix[up+i+c])+
							float64(src.Pix[down+i+c])+
							float64(src.Pix[row+i-4+c])+
							float64(src.Pix[row+i+4+c]))
					dst.Pix[row+i+c] = toUint8(sum)
				}
			}
		}
	})
	return dst
}

// Grayscale converts the image to grayscale in place.
func Grayscale(img *image.NRGBA) *image.NRGBA {
	eachPixel(img, func(px []uint8) {
		gray := toUint8(luma(px[0], px[1], px[2]))
		px[0], px[1], px[2] = gray, gray, gray
	})
	return img
}

// BlackWhite thresholds the luminance of the image at mid gray.
func BlackWhite(img *image.NRGBA) *image.NRGBA {
	eachPixel(img, func(px []uint8) {
		var bw uint8
		if luma(px[0], px[1], px[2]) > 128 {
			bw = 255
		}
		px[0], px[1], px[2] = bw, bw, bw
	})
	return img
}

// Sepia applies a warm brown tone to the image.
func Sepia(img *image.NRGBA) *image.NRGBA {
	eachPixel(img, func(px []uint8) {
		r, g, b := float64(px[0]), float64(px[1]), float64(px[2])
		px[0] = toUint8(r*0.393 + g*0.769 + b*0.189)
		px[1] = toUint8(r*0.349 + g*0.686 + b*0.168)
		px[2] = toUint8(r*0.272 + g*0.534 + b*0.131)
	})
	return img
}

// Invert produces the negative of the image.
func Invert(img *image.NRGBA) *image.NRGBA {
	eachPixel(img, func(px []uint8) {
		px[0], px[1], px[2] = 255-px[0], 255-px[1], 255-px[2]
	})
	return img
}
