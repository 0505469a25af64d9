package filter

import "image"

// Options holds the capture time enhancement settings.
type Options struct {
	// Brightness is added to every channel, in the [-100, 100] range.
	Brightness int `yaml:"brightness"`
	// Contrast is expressed in percents, 100 leaves the image unchanged.
	Contrast int `yaml:"contrast"`
	// Sharpness is the sharpening strength in percents, 0 disables it.
	Sharpness int `yaml:"sharpness"`

	GlareReduction bool `yaml:"glare_reduction"`
	Grayscale      bool `yaml:"grayscale"`
	AutoEdge       bool `yaml:"auto_edge"`
}

// DefaultOptions returns the settings the scanner starts with.
func DefaultOptions() Options {
	return Options{
		Brightness:     0,
		Contrast:       100,
		Sharpness:      0,
		GlareReduction: true,
		Grayscale:      false,
		AutoEdge:       true,
	}
}

// Enhance runs the capture pipeline over the frame: glare reduction,
// brightness and contrast, sharpening and grayscale conversion, in this order.
// The frame may be modified in place; the returned image holds the result.
func Enhance(img *image.NRGBA, opts Options) *image.NRGBA {
	if opts.GlareReduction {
		img = ReduceGlare(img)
	}
	img = AdjustBrightnessContrast(img, opts.Brightness, float64(opts.Contrast)/100)

	if opts.Sharpness > 0 {
		img = Sharpen(img, float64(opts.Sharpness)/100)
	}
	if opts.Grayscale {
		img = Grayscale(img)
	}
	return img
}
