package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/esimov/docscan/draw"
	"github.com/esimov/docscan/export"
	"github.com/esimov/docscan/filter"
	"github.com/esimov/docscan/geometry"
	"github.com/esimov/docscan/pixels"
	"github.com/esimov/docscan/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	outputDir  string
	filterName string
	overlayOut string
	selection  string

	enhanceFlags struct {
		brightness int
		contrast   int
		sharpness  int
		grayscale  bool
		noGlare    bool
		noAutoEdge bool
	}
)

// enhanceCmd runs the capture pipeline over image files
var enhanceCmd = &cobra.Command{
	Use:   "enhance [images...]",
	Short: "Apply the capture enhancement pipeline to images",
	Long: `Apply glare reduction, brightness/contrast, sharpening, grayscale and the
automatic edge crop to every image, exactly as the scanner does on capture.
Settings come from the configuration file and can be overridden with flags.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnhance,
}

// filterCmd applies one of the editor filters to image files
var filterCmd = &cobra.Command{
	Use:   "filter [images...]",
	Short: "Apply an editor filter (grayscale, blackwhite, sepia, invert, whiten)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFilter,
}

// detectCmd draws the detected document outline over an image
var detectCmd = &cobra.Command{
	Use:   "detect [image]",
	Short: "Draw the detected document boundary over an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

func init() {
	for _, cmd := range []*cobra.Command{enhanceCmd, filterCmd} {
		cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "output directory")
	}

	f := enhanceCmd.Flags()
	f.IntVar(&enhanceFlags.brightness, "brightness", 0, "brightness offset (-100..100)")
	f.IntVar(&enhanceFlags.contrast, "contrast", 100, "contrast in percents (50..200)")
	f.IntVar(&enhanceFlags.sharpness, "sharpness", 0, "sharpening strength in percents (0..100)")
	f.BoolVar(&enhanceFlags.grayscale, "grayscale", false, "convert to grayscale")
	f.BoolVar(&enhanceFlags.noGlare, "no-glare-reduction", false, "disable glare reduction")
	f.BoolVar(&enhanceFlags.noAutoEdge, "no-auto-edge", false, "disable the automatic edge crop")

	filterCmd.Flags().StringVarP(&filterName, "kind", "k", "grayscale", "filter to apply")
	detectCmd.Flags().StringVarP(&overlayOut, "output", "o", "detected.png", "output image")
	detectCmd.Flags().StringVar(&selection, "selection", "", "also outline a crop selection, given as x0,y0,x1,y1")
}

// enhanceOptions merges the explicitly set flags into the configured options.
func enhanceOptions(cmd *cobra.Command) filter.Options {
	opts := cfg.Enhance
	f := cmd.Flags()
	if f.Changed("brightness") {
		opts.Brightness = enhanceFlags.brightness
	}
	if f.Changed("contrast") {
		opts.Contrast = enhanceFlags.contrast
	}
	if f.Changed("sharpness") {
		opts.Sharpness = enhanceFlags.sharpness
	}
	if f.Changed("grayscale") {
		opts.Grayscale = enhanceFlags.grayscale
	}
	if enhanceFlags.noGlare {
		opts.GlareReduction = false
	}
	if enhanceFlags.noAutoEdge {
		opts.AutoEdge = false
	}
	return opts
}

func runEnhance(cmd *cobra.Command, args []string) error {
	scanner := session.NewScanner(session.NewCollection(logger), enhanceOptions(cmd), logger)

	for _, path := range args {
		img, err := pixels.Load(path)
		if err != nil {
			return err
		}
		out, err := scanner.Process(img)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := writeJPEG(outputPath(path), out); err != nil {
			return err
		}
	}
	return nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	kind, err := filter.ParseKind(filterName)
	if err != nil {
		return err
	}
	for _, path := range args {
		img, err := pixels.Load(path)
		if err != nil {
			return err
		}
		out, err := filter.Apply(kind, img)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := writeJPEG(outputPath(path), out); err != nil {
			return err
		}
	}
	return nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	var sel []geometry.Point
	if selection != "" {
		var err error
		if sel, err = parseSelection(selection); err != nil {
			return err
		}
	}
	img, err := pixels.Load(args[0])
	if err != nil {
		return err
	}
	b := img.Bounds()
	corners := geometry.FindDocumentCorners(b.Dx(), b.Dy())
	draw.Outline(img, corners, draw.CornerStyle)
	if sel != nil {
		draw.Rect(img, sel[0], sel[1], draw.SelectionStyle)
	}

	logger.WithFields(logrus.Fields{
		"top_left":     corners.TopLeft,
		"bottom_right": corners.BottomRight,
	}).Info("document boundary")

	return writeFile(overlayOut, img)
}

// parseSelection reads the two corners of a selection written as x0,y0,x1,y1.
func parseSelection(s string) ([]geometry.Point, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return nil, fmt.Errorf("invalid selection %q: want x0,y0,x1,y1", s)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q: %w", s, err)
		}
		v[i] = n
	}
	return []geometry.Point{geometry.Pt(v[0], v[1]), geometry.Pt(v[2], v[3])}, nil
}

func outputPath(src string) string {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(outputDir, name+".jpg")
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.EncodeJPEG(f, img, cfg.Export.Quality); err != nil {
		f.Close()
		return fmt.Errorf("cannot encode %s: %w", path, err)
	}
	logger.WithField("path", path).Info("image written")
	return f.Close()
}
