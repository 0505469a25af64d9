package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/esimov/docscan/export"
	"github.com/esimov/docscan/pixels"
	"github.com/esimov/docscan/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	format  string
	output  string
	enhance bool
}

// exportCmd packs image files into a zip archive or a PDF document
var exportCmd = &cobra.Command{
	Use:   "export [images...]",
	Short: "Pack images into a zip archive or a multi page PDF",
	Long: `Pack the images, in the given order, into a zip archive of numbered JPEG files
or into an A4 PDF document with one page per image.

With --enhance every image goes through the capture pipeline first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportFlags.format, "format", "f", "pdf", "output format: zip or pdf")
	f.StringVarP(&exportFlags.output, "output", "o", "", "output file (defaults to a dated name)")
	f.BoolVar(&exportFlags.enhance, "enhance", false, "run the capture pipeline on every image")
}

func runExport(cmd *cobra.Command, args []string) error {
	pages := session.NewCollection(logger)
	scanner := session.NewScanner(pages, cfg.Enhance, logger)

	for _, path := range args {
		img, err := pixels.Load(path)
		if err != nil {
			return err
		}
		if exportFlags.enhance {
			if _, err := scanner.Capture(img); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			continue
		}
		pages.Add(img)
	}

	now := time.Now()
	var write func(ctx context.Context, f *os.File) error
	output := exportFlags.output

	switch strings.ToLower(exportFlags.format) {
	case "zip":
		if output == "" {
			output = export.ArchiveName(now)
		}
		write = func(ctx context.Context, f *os.File) error {
			return export.Zip(ctx, f, pages.Images(), cfg.Export.Quality)
		}
	case "pdf":
		if output == "" {
			output = export.PDFName(now)
		}
		write = func(ctx context.Context, f *os.File) error {
			return export.PDF(ctx, f, pages.Images(), cfg.Export.Quality)
		}
	default:
		return fmt.Errorf("unsupported format %q", exportFlags.format)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := write(cmd.Context(), f); err != nil {
		f.Close()
		os.Remove(output)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"output": output,
		"pages":  pages.Len(),
	}).Info("export done")

	return nil
}

// writeFile encodes the image as PNG or JPEG depending on the file extension.
func writeFile(path string, img image.Image) error {
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return writeJPEG(path, img)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("cannot encode %s: %w", path, err)
	}
	logger.WithField("path", path).Info("image written")
	return f.Close()
}
