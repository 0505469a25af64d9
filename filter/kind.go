package filter

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// ErrUnknownFilter is returned for filter names the editor does not know about.
var ErrUnknownFilter = errors.New("unknown filter")

// Kind identifies one of the filters offered by the page editor.
type Kind int

const (
	KindGrayscale Kind = iota
	KindBlackWhite
	KindSepia
	KindInvert
	KindWhiten
)

var kindNames = map[Kind]string{
	KindGrayscale:  "grayscale",
	KindBlackWhite: "blackwhite",
	KindSepia:      "sepia",
	KindInvert:     "invert",
	KindWhiten:     "whiten",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every editor filter in presentation order.
func Kinds() []Kind {
	return []Kind{KindGrayscale, KindBlackWhite, KindSepia, KindInvert, KindWhiten}
}

// ParseKind resolves a filter name, as used by the UI buttons, to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}

// Apply runs the filter of the given kind over the image.
func Apply(kind Kind, img *image.NRGBA) (*image.NRGBA, error) {
	switch kind {
	case KindGrayscale:
		return Grayscale(img), nil
	case KindBlackWhite:
		return BlackWhite(img), nil
	case KindSepia:
		return Sepia(img), nil
	case KindInvert:
		return Invert(img), nil
	case KindWhiten:
		return Whiten(img, DefaultWhitenRadius)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFilter, kind)
}
