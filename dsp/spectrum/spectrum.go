package spectrum

import (
	"github.com/cwbudde/algo-vecmath"
)

// MagnitudeFromParts computes |x[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// This is the zero-allocation fast path for callers that already have real
// and imaginary parts in separate slices, as the IQ frame decoder does.
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// PowerFromParts computes |x[k]|^2 = re[k]^2 + im[k]^2 into dst.
//
// All three slices must have the same length.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}
