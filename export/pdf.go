package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/go-pdf/fpdf"
)

// PageMargin is the minimum distance, in millimeters, between the image and the page edge.
const PageMargin = 10

// Fit scales an image of imgW x imgH to the page, keeping its aspect ratio,
// and centers it. The constraining side is inset by margin on both ends.
func Fit(imgW, imgH, pageW, pageH, margin float64) (x, y, w, h float64) {
	imgRatio := imgW / imgH
	pageRatio := pageW / pageH

	if imgRatio > pageRatio {
		w = pageW - 2*margin
		h = w / imgRatio
	} else {
		h = pageH - 2*margin
		w = h * imgRatio
	}
	return (pageW - w) / 2, (pageH - h) / 2, w, h
}

// PDF writes the pages into an A4 portrait document, one image per page.
func PDF(ctx context.Context, w io.Writer, pages []image.Image, quality int) error {
	encoded, err := encodeAll(ctx, pages, quality)
	if err != nil {
		return err
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCreator("docscan", false)
	doc.SetTitle("Scanned document", false)

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	for i, data := range encoded {
		name := EntryName(i)
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		if err := doc.Error(); err != nil {
			return fmt.Errorf("cannot register page %d: %w", i+1, err)
		}
		doc.AddPage()

		pageW, pageH := doc.GetPageSize()
		b := pages[i].Bounds()
		x, y, fw, fh := Fit(float64(b.Dx()), float64(b.Dy()), pageW, pageH, PageMargin)
		doc.ImageOptions(name, x, y, fw, fh, false, opts, 0, "")
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("cannot write pdf: %w", err)
	}
	return nil
}
