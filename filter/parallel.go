package filter

import (
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBandHeight keeps the per goroutine work large enough to pay off.
const minBandHeight = 64

// eachRow splits the image rows into horizontal bands and runs fn over
// every band concurrently. The bands never overlap, so fn can write
// into its own rows without locking.
func eachRow(img *image.NRGBA, fn func(y0, y1 int)) {
	height := img.Bounds().Dy()
	if height == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if n := (height + minBandHeight - 1) / minBandHeight; n < workers {
		workers = n
	}
	if workers <= 1 {
		fn(0, height)
		return
	}

	band := (height + workers - 1) / workers
	g := &errgroup.Group{}
	for y0 := 0; y0 < height; y0 += band {
		y0, y1 := y0, min(y0+band, height)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}

// eachPixel calls fn with the rgba slice of every pixel of the image.
func eachPixel(img *image.NRGBA, fn func(px []uint8)) {
	width := img.Bounds().Dx()
	eachRow(img, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+width*4]
			for i := 0; i < len(row); i += 4 {
				fn(row[i : i+4 : i+4])
			}
		}
	})
}
