// Package export packs the scanned pages into a zip archive of JPEG files
// or into a multi page A4 PDF document.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultQuality is the JPEG quality used for the exported pages.
const DefaultQuality = 95

// ErrNoPages is returned when there is nothing to export.
var ErrNoPages = errors.New("no pages to export")

// EncodeJPEG writes the image as a JPEG of the given quality.
// Out of range qualities fall back to DefaultQuality.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// encodeAll encodes every page concurrently, keeping the page order.
func encodeAll(ctx context.Context, pages []image.Image, quality int) ([][]byte, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	encoded := make([][]byte, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := EncodeJPEG(&buf, page, quality); err != nil {
				return fmt.Errorf("cannot encode page %d: %w", i+1, err)
			}
			encoded[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return encoded, nil
}

// EntryName returns the archive entry name of the i-th page, counting from zero.
func EntryName(i int) string {
	return fmt.Sprintf("scan_%03d.jpg", i+1)
}

// ArchiveName returns the download name of the zip archive created at t.
func ArchiveName(t time.Time) string {
	return "scans_" + t.UTC().Format(time.DateOnly) + ".zip"
}

// PDFName returns the download name of the PDF document created at t.
func PDFName(t time.Time) string {
	return "scan_" + t.UTC().Format(time.DateOnly) + ".pdf"
}
