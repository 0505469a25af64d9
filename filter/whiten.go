package filter

import (
	"fmt"
	"image"

	"github.com/esimov/stackblur-go"
)

// DefaultWhitenRadius is the blur radius used to estimate the page background.
const DefaultWhitenRadius = 25

// Whiten flattens the paper background of the image in place. The background
// is estimated with a wide stack blur, then every channel is divided by it, so
// shadows and uneven lighting fade to white while the ink keeps its contrast.
// Images thinner than two pixels on either side have no background to
// estimate and are returned unchanged.
func Whiten(img *image.NRGBA, radius uint32) (*image.NRGBA, error) {
	if b := img.Bounds(); b.Dx() < 2 || b.Dy() < 2 {
		return img, nil
	}
	if radius == 0 {
		radius = DefaultWhitenRadius
	}
	bg, err := stackblur.Process(img, radius)
	if err != nil {
		return nil, fmt.Errorf("cannot estimate background: %w", err)
	}

	width := img.Bounds().Dx()
	eachRow(img, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+width*4]
			bgRow := bg.Pix[y*bg.Stride : y*bg.Stride+width*4]
			for i := 0; i < len(row); i += 4 {
				for c := 0; c < 3; c++ {
					if bgRow[i+c] == 0 {
						continue
					}
					row[i+c] = toUint8(float64(row[i+c]) * 255 / float64(bgRow[i+c]))
				}
			}
		}
	})
	return img, nil
}
