package export

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNames(t *testing.T) {
	at := time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))

	assert.Equal(t, "scans_2026-10-20.zip", ArchiveName(at))
	assert.Equal(t, "scan_2026-10-20.pdf", PDFName(at))
	assert.Equal(t, "scan_001.jpg", EntryName(0))
	assert.Equal(t, "scan_042.jpg", EntryName(41))
	assert.Equal(t, "scan_1000.jpg", EntryName(999))
}

func TestEncodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJPEG(&buf, page(16, 8, color.NRGBA{R: 200, A: 255}), 0))

	img, err := jpeg.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())
}

func TestZip(t *testing.T) {
	pages := []image.Image{
		page(30, 20, color.NRGBA{R: 255, A: 255}),
		page(10, 40, color.NRGBA{G: 255, A: 255}),
		page(5, 5, color.NRGBA{B: 255, A: 255}),
	}
	var buf bytes.Buffer
	require.NoError(t, Zip(context.Background(), &buf, pages, DefaultQuality))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	for i, f := range zr.File {
		assert.Equal(t, EntryName(i), f.Name)
		assert.Equal(t, zip.Store, f.Method)

		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, pages[i].Bounds().Dx(), cfg.Width)
		assert.Equal(t, pages[i].Bounds().Dy(), cfg.Height)
	}
}

func TestEmptyExport(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Zip(context.Background(), &buf, nil, DefaultQuality), ErrNoPages)
	assert.ErrorIs(t, PDF(context.Background(), &buf, nil, DefaultQuality), ErrNoPages)
	assert.Zero(t, buf.Len())
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Zip(ctx, &buf, []image.Image{page(4, 4, color.NRGBA{A: 255})}, DefaultQuality)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFit(t *testing.T) {
	tests := []struct {
		name       string
		imgW, imgH float64
		want       [4]float64
	}{
		{"landscape", 1600, 1200, [4]float64{10, 77.25, 190, 142.5}},
		{"portrait", 1000, 2000, [4]float64{35.75, 10, 138.5, 277}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := Fit(tt.imgW, tt.imgH, 210, 297, PageMargin)
			assert.InDeltaSlice(t, tt.want[:], []float64{x, y, w, h}, 1e-9)
		})
	}
}

func TestPDF(t *testing.T) {
	pages := []image.Image{
		page(64, 48, color.NRGBA{R: 255, A: 255}),
		page(48, 64, color.NRGBA{B: 255, A: 255}),
	}
	var buf bytes.Buffer
	require.NoError(t, PDF(context.Background(), &buf, pages, 80))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
	assert.Equal(t, 2, bytes.Count(out, []byte("/Subtype /Image")))
}
