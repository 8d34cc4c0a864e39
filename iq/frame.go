// Package iq decodes raw capture frames from the DUT into aligned spectrum
// series.
//
// A frame is a fixed-size block of little-endian signed 16-bit (real,
// imaginary) pairs, four bytes per sample, exactly as the device streams
// them over UART. The decoded series carry the frequency axis derived from
// the device's fixed bin spacing.
package iq

import (
	"encoding/binary"
	"fmt"

	"github.com/cwbudde/dsptools/dsp/spectrum"
)

// Frame layout of the reference target.
const (
	// FrameBytes is the exact size of one capture readback.
	FrameBytes = 2048
	// SamplesPerFrame is the number of complex samples per frame.
	SamplesPerFrame = 512
	// BytesPerSample is the wire size of one (real, imaginary) pair.
	BytesPerSample = 4
	// BinStepHz is the frequency spacing between consecutive points,
	// derived from the device's 390.625 kHz full-scale sampling rate.
	BinStepHz = 195312.5
)

// FrameLengthError reports a buffer that is not exactly one frame.
type FrameLengthError struct {
	Got  int
	Want int
}

func (e *FrameLengthError) Error() string {
	return fmt.Sprintf("iq: frame length %d bytes, want %d", e.Got, e.Want)
}

// Layout describes the frame geometry of one hardware variant.
type Layout struct {
	// FrameBytes is the exact readback size in bytes.
	FrameBytes int
	// BinStepHz is the frequency spacing between points.
	BinStepHz float64
}

// DefaultLayout returns the layout of the reference target.
func DefaultLayout() Layout {
	return Layout{FrameBytes: FrameBytes, BinStepHz: BinStepHz}
}

// Samples returns the number of complex samples per frame.
func (l Layout) Samples() int {
	return l.FrameBytes / BytesPerSample
}

// Spectrum holds the decoded series of one frame, index-aligned.
type Spectrum struct {
	// Freq is the frequency axis in Hz, Freq[k] = k * BinStepHz.
	Freq []float64
	// Re and Im are the decoded signed 16-bit sample values.
	Re []float64
	Im []float64
	// Mag is sqrt(Re^2 + Im^2), unscaled.
	Mag []float64
}

// Len returns the number of points.
func (s *Spectrum) Len() int {
	return len(s.Freq)
}

// Decode decodes one frame using the layout geometry.
//
// The buffer must be exactly FrameBytes long; anything else fails with a
// FrameLengthError before any decoding happens. Within each 4-byte group,
// bytes [0,1] are the little-endian signed 16-bit real value and bytes [2,3]
// the imaginary value. Samples keep their wire order.
func (l Layout) Decode(buf []byte) (*Spectrum, error) {
	if l.FrameBytes <= 0 || l.FrameBytes%BytesPerSample != 0 {
		return nil, fmt.Errorf("iq: invalid layout frame size: %d", l.FrameBytes)
	}
	if l.BinStepHz <= 0 {
		return nil, fmt.Errorf("iq: invalid layout bin step: %f", l.BinStepHz)
	}
	if len(buf) != l.FrameBytes {
		return nil, &FrameLengthError{Got: len(buf), Want: l.FrameBytes}
	}

	n := l.Samples()
	s := &Spectrum{
		Freq: make([]float64, n),
		Re:   make([]float64, n),
		Im:   make([]float64, n),
		Mag:  make([]float64, n),
	}

	for k := 0; k < n; k++ {
		group := buf[k*BytesPerSample:]
		s.Freq[k] = float64(k) * l.BinStepHz
		s.Re[k] = float64(int16(binary.LittleEndian.Uint16(group[0:2])))
		s.Im[k] = float64(int16(binary.LittleEndian.Uint16(group[2:4])))
	}

	spectrum.MagnitudeFromParts(s.Mag, s.Re, s.Im)
	return s, nil
}

// Decode decodes one frame with the reference target layout.
func Decode(buf []byte) (*Spectrum, error) {
	return DefaultLayout().Decode(buf)
}
