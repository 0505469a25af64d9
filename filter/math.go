package filter

import (
	"math"

	"golang.org/x/exp/constraints"
)

// clamp restricts the value to the [lo, hi] interval.
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toUint8 stores a channel value the way a clamped byte array does:
// out of range values are saturated and fractions are rounded half to even.
func toUint8(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.RoundToEven(clamp(v, 0, 255)))
}

// luma returns the perceived brightness of an rgb triplet (ITU-R BT.601).
func luma(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}
