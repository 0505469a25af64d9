package export

import (
	"archive/zip"
	"context"
	"fmt"
	"image"
	"io"
	"time"
)

// Zip writes every page as a numbered JPEG entry of a zip archive.
// The JPEG data is already compressed, so the entries are stored as is.
func Zip(ctx context.Context, w io.Writer, pages []image.Image, quality int) error {
	encoded, err := encodeAll(ctx, pages, quality)
	if err != nil {
		return err
	}
	modified := time.Now()

	zw := zip.NewWriter(w)
	for i, data := range encoded {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     EntryName(i),
			Method:   zip.Store,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("cannot create zip entry: %w", err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("cannot write zip entry: %w", err)
		}
	}
	return zw.Close()
}
