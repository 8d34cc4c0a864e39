// Package waveform synthesizes the periodic signals preloaded into the
// target's waveform ROM.
//
// Two shapes are supported: a fixed-frequency sine carrier and a
// band-limited square wave approximated by a finite sum of odd harmonics
// (amplitude 1/m for harmonic m, scaled by a common gain). The square
// fundamental spans exactly one ROM sequence so the table loops seamlessly.
//
// The package produces raw float64 sample buffers; quantization and hex
// serialization live in the rom package.
package waveform
