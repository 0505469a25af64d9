package pixels

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	pigo "github.com/esimov/pigo/core"
)

// ImgToPix converts an image to a flat RGBA pixel buffer in row-major order.
func ImgToPix(img image.Image) []uint8 {
	src := ToNRGBA(img)
	b := src.Bounds()
	pixels := make([]uint8, 0, b.Dx()*b.Dy()*4)

	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		pixels = append(pixels, row...)
	}
	return pixels
}

// PixToImage converts a flat RGBA pixel buffer of the given size to an image.
// The buffer is copied, so the caller is free to reuse it.
func PixToImage(pixels []uint8, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pixels) < width*height*4 {
		return nil, fmt.Errorf("pixel buffer too short: got %d bytes, want %d", len(pixels), width*height*4)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels[:width*height*4])

	return img, nil
}

// ToNRGBA returns img as an *image.NRGBA anchored at the origin.
// Images already in that shape are returned as is.
func ToNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}
	return pigo.ImgToNRGBA(img)
}

// Clone returns a deep copy of the source image.
func Clone(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// Load decodes the image file found at path.
func Load(path string) (*image.NRGBA, error) {
	img, err := pigo.GetImage(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load %s: %w", path, err)
	}
	return ToNRGBA(img), nil
}
