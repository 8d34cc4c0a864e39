// Package spectrum computes per-bin magnitude and power from IQ parts.
//
// The package intentionally performs no spectral transform. The acquisition
// hardware already streams frequency-domain IQ pairs; all that remains on the
// host is the per-bin magnitude and power, computed here with the vectorized
// kernels from algo-vecmath.
package spectrum
