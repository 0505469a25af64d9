package geometry

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradient returns an image where every pixel encodes its own coordinates.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	return img
}

func TestFindDocumentCorners(t *testing.T) {
	c := FindDocumentCorners(1920, 1080)

	assert.InDelta(t, 192, c.TopLeft.X, 1e-9)
	assert.InDelta(t, 108, c.TopLeft.Y, 1e-9)
	assert.InDelta(t, 1728, c.TopRight.X, 1e-9)
	assert.InDelta(t, 108, c.TopRight.Y, 1e-9)
	assert.InDelta(t, 1728, c.BottomRight.X, 1e-9)
	assert.InDelta(t, 972, c.BottomRight.Y, 1e-9)
	assert.InDelta(t, 192, c.BottomLeft.X, 1e-9)
	assert.InDelta(t, 972, c.BottomLeft.Y, 1e-9)

	assert.Equal(t, []Point{c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft}, c.Points())
}

func TestPerspectiveCrop(t *testing.T) {
	img := gradient(100, 50)
	got := PerspectiveCrop(img)

	assert.Equal(t, image.Rect(0, 0, 80, 40), got.Bounds())
	assert.Equal(t, color.NRGBA{R: 10, G: 5, B: 7, A: 255}, got.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 89, G: 44, B: 7, A: 255}, got.NRGBAAt(79, 39))
}

func TestPerspectiveCropTinyFrame(t *testing.T) {
	img := gradient(3, 3)
	got := PerspectiveCrop(img)
	assert.Equal(t, image.Rect(0, 0, 2, 2), got.Bounds())

	img = gradient(1, 1)
	assert.Same(t, img, PerspectiveCrop(img))
}

func TestNormalizeRect(t *testing.T) {
	x, y, w, h := NormalizeRect(Pt(50, 10), Pt(20, 40))
	assert.Equal(t, []float64{20, 10, 30, 30}, []float64{x, y, w, h})
}

func TestCrop(t *testing.T) {
	img := gradient(60, 60)

	got, err := Crop(img, Pt(40, 35), Pt(10, 5))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 30), got.Bounds())
	assert.Equal(t, color.NRGBA{R: 10, G: 5, B: 7, A: 255}, got.NRGBAAt(0, 0))

	// The crop does not alias the source buffer.
	got.SetNRGBA(0, 0, color.NRGBA{})
	assert.Equal(t, color.NRGBA{R: 10, G: 5, B: 7, A: 255}, img.NRGBAAt(10, 5))
}

func TestCropRejectsSmallSelection(t *testing.T) {
	img := gradient(60, 60)

	tests := []struct {
		name   string
		p0, p1 Point
	}{
		{"narrow", Pt(10, 10), Pt(19, 50)},
		{"short", Pt(10, 10), Pt(50, 19.5)},
		{"click", Pt(10, 10), Pt(10, 10)},
		{"outside", Pt(100, 100), Pt(200, 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Crop(img, tt.p0, tt.p1)
			assert.ErrorIs(t, err, ErrSelectionTooSmall)
			assert.Same(t, img, got)
		})
	}
}

func TestCropClipsToBounds(t *testing.T) {
	img := gradient(60, 60)

	got, err := Crop(img, Pt(-20, 40), Pt(30, 90))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 20), got.Bounds())
	assert.Equal(t, color.NRGBA{R: 0, G: 40, B: 7, A: 255}, got.NRGBAAt(0, 0))
}

func TestCropRejectsSelectionClippedTooSmall(t *testing.T) {
	img := gradient(100, 100)

	// The drag is 40x21 but only a 40x1 strip lies inside the image.
	got, err := Crop(img, Pt(10, -20), Pt(50, 1))
	assert.ErrorIs(t, err, ErrSelectionTooSmall)
	assert.Same(t, img, got)

	got, err = Crop(img, Pt(95, 20), Pt(130, 60))
	assert.ErrorIs(t, err, ErrSelectionTooSmall)
	assert.Same(t, img, got)
}

func TestClientToImage(t *testing.T) {
	p := ClientToImage(Pt(100, 50), 400, 300, 1600, 1200)
	assert.Equal(t, Pt(400, 200), p)

	assert.Equal(t, Pt(3, 4), ClientToImage(Pt(3, 4), 0, 0, 10, 10))
}

func TestRotate(t *testing.T) {
	img := gradient(4, 2)

	cw, err := Rotate(img, 90)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 4), cw.Bounds())
	// The top left pixel ends up in the top right corner.
	assert.Equal(t, img.NRGBAAt(0, 0), cw.NRGBAAt(1, 0))
	assert.Equal(t, img.NRGBAAt(3, 1), cw.NRGBAAt(0, 3))

	ccw, err := Rotate(img, -90)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 4), ccw.Bounds())
	assert.Equal(t, img.NRGBAAt(0, 0), ccw.NRGBAAt(0, 3))
	assert.Equal(t, img.NRGBAAt(3, 0), ccw.NRGBAAt(0, 0))

	half, err := Rotate(img, 180)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), half.Bounds())
	assert.Equal(t, img.NRGBAAt(0, 0), half.NRGBAAt(3, 1))
}

func TestRotateRoundTrip(t *testing.T) {
	img := gradient(7, 3)

	once, err := Rotate(img, 90)
	require.NoError(t, err)
	back, err := Rotate(once, -90)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, back.Pix)

	full, err := Rotate(img, 360)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, full.Pix)
	assert.NotSame(t, img, full)

	quarters, err := Rotate(img, 450)
	require.NoError(t, err)
	assert.Equal(t, once.Pix, quarters.Pix)
}

func TestRotateUnsupported(t *testing.T) {
	_, err := Rotate(gradient(2, 2), 45)
	assert.ErrorIs(t, err, ErrUnsupportedAngle)
}
