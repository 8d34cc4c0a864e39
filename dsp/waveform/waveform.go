package waveform

import (
	"fmt"
	"math"
)

// Kind selects the synthesized waveform shape.
type Kind int

const (
	// KindNone is the invalid zero value; configs must pick a shape explicitly.
	KindNone Kind = iota
	// KindSine is a single fixed-frequency carrier tone.
	KindSine
	// KindSquare is a band-limited square wave built from odd harmonics.
	KindSquare
)

// Valid reports whether k names a concrete waveform shape.
func (k Kind) Valid() bool {
	return k == KindSine || k == KindSquare
}

// String returns the flag-style name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSine:
		return "sine"
	case KindSquare:
		return "square"
	default:
		return "none"
	}
}

// Harmonic is one term of the synthesis series.
type Harmonic struct {
	// Index is the integer multiple of the fundamental frequency.
	Index int
	// Amplitude is the term's linear amplitude.
	Amplitude float64
}

// Config holds the synthesis parameters for one ROM image.
type Config struct {
	// SampleRate is the target DAC sampling frequency in Hz.
	SampleRate float64
	// Gain is the amplitude scale of the harmonic sum.
	Gain float64
	// AddressBits is the ROM address width; sample count is 2^AddressBits.
	AddressBits int
	// Kind selects sine or square synthesis.
	Kind Kind
	// CarrierHz is the fixed tone frequency used for KindSine.
	CarrierHz float64
	// Harmonics is the number of odd harmonics summed for KindSquare.
	Harmonics int
}

// Validate checks the config for internal consistency.
func (c Config) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("waveform: no waveform kind selected")
	}
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("waveform: sample rate must be > 0 and finite: %f", c.SampleRate)
	}
	if math.IsNaN(c.Gain) || math.IsInf(c.Gain, 0) {
		return fmt.Errorf("waveform: gain must be finite: %f", c.Gain)
	}
	if c.AddressBits < 1 || c.AddressBits > 24 {
		return fmt.Errorf("waveform: address bits must be in [1, 24]: %d", c.AddressBits)
	}
	if c.Kind == KindSine && c.CarrierHz <= 0 {
		return fmt.Errorf("waveform: carrier frequency must be > 0: %f", c.CarrierHz)
	}
	if c.Kind == KindSquare && c.Harmonics < 1 {
		return fmt.Errorf("waveform: harmonic count must be >= 1: %d", c.Harmonics)
	}
	return nil
}

// SampleCount returns the ROM depth, always a power of two.
func (c Config) SampleCount() int {
	return 1 << c.AddressBits
}

// Fundamental returns the synthesis fundamental frequency in Hz.
//
// For a sine this is the fixed carrier. For a square wave the fundamental
// spans exactly one ROM sequence: 1 / (sampleCount * samplingPeriod).
func (c Config) Fundamental() float64 {
	switch c.Kind {
	case KindSine:
		return c.CarrierHz
	case KindSquare:
		return c.SampleRate / float64(c.SampleCount())
	default:
		return 0
	}
}

// HarmonicSeries returns the ordered synthesis terms.
//
// A sine is the single term {1, Gain}. A square wave is Harmonics terms at
// the odd indices 1, 3, 5, ..., each with amplitude Gain/index. An unset
// kind has no series.
func (c Config) HarmonicSeries() []Harmonic {
	switch c.Kind {
	case KindSine:
		return []Harmonic{{Index: 1, Amplitude: c.Gain}}
	case KindSquare:
		series := make([]Harmonic, c.Harmonics)
		for j := range series {
			idx := 2*j + 1
			series[j] = Harmonic{Index: idx, Amplitude: c.Gain / float64(idx)}
		}
		return series
	default:
		return nil
	}
}

// Generator synthesizes sample buffers from a validated configuration.
type Generator struct {
	cfg Config
}

// NewGenerator creates a generator, rejecting invalid configurations.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Samples synthesizes one ROM period as the sum of the harmonic series.
//
// The time vector is accumulated (t[i] = t[i-1] + period) rather than
// computed as i*period. The accumulated form carries a tiny floating-point
// drift over the sequence, but it reproduces the deployed ROM images
// bit-exactly, so it is kept deliberately.
//
// No normalization or clipping is applied; gain and harmonic count can push
// the sum past the quantization range. Range handling is the serializer's
// concern.
func (g *Generator) Samples() []float64 {
	n := g.cfg.SampleCount()
	period := 1 / g.cfg.SampleRate
	f0 := g.cfg.Fundamental()
	series := g.cfg.HarmonicSeries()

	out := make([]float64, n)
	t := 0.0
	for i := range out {
		if i > 0 {
			t += period
		}
		sum := 0.0
		for _, h := range series {
			sum += h.Amplitude * math.Sin(2*math.Pi*float64(h.Index)*f0*t)
		}
		out[i] = sum
	}
	return out
}
