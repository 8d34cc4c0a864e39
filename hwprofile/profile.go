// Package hwprofile holds the hardware-facing constants of the DSP target.
//
// The values here are tied to the specific board clocking and firmware; they
// are configuration, not tunables. Changing any of them silently breaks
// compatibility with the deployed bitstream, so they live in one place and
// can only be overridden explicitly through a profile file.
package hwprofile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ROMProfile describes the waveform ROM expected by the target.
type ROMProfile struct {
	// Gain is the amplitude scale applied to the harmonic sum.
	Gain float64 `yaml:"gain"`
	// QuantBits is the quantization bit width of the DAC path.
	QuantBits int `yaml:"quant_bits"`
	// WordBits is the ROM data word width.
	WordBits int `yaml:"word_bits"`
	// AddressBits is the ROM address width; depth is 2^AddressBits.
	AddressBits int `yaml:"address_bits"`
	// CarrierHz is the fixed sine carrier frequency.
	CarrierHz float64 `yaml:"carrier_hz"`
	// Harmonics is the number of odd harmonics summed for the square wave.
	Harmonics int `yaml:"harmonics"`
}

// UARTProfile describes the acquisition link to the DUT.
type UARTProfile struct {
	// Baud is the link baudrate.
	Baud int `yaml:"baud"`
	// SettleMillis is the minimum delay between the fill and readback
	// commands, giving the device time to fill its capture buffer.
	SettleMillis int `yaml:"settle_ms"`
	// ReadTimeoutSeconds bounds the frame read.
	ReadTimeoutSeconds int `yaml:"read_timeout_s"`
	// FrameBytes is the exact size of one capture readback.
	FrameBytes int `yaml:"frame_bytes"`
}

// SpectrumProfile describes how the device lays out its frequency bins.
type SpectrumProfile struct {
	// BinStepHz is the frequency spacing between consecutive points.
	BinStepHz float64 `yaml:"bin_step_hz"`
}

// Profile bundles all hardware constants for one target variant.
type Profile struct {
	ROM      ROMProfile      `yaml:"rom"`
	UART     UARTProfile     `yaml:"uart"`
	Spectrum SpectrumProfile `yaml:"spectrum"`
}

// Default returns the profile of the reference target.
func Default() Profile {
	return Profile{
		ROM: ROMProfile{
			Gain:        80,
			QuantBits:   14,
			WordBits:    16,
			AddressBits: 9,
			CarrierHz:   25e6,
			Harmonics:   10,
		},
		UART: UARTProfile{
			Baud:               230400,
			SettleMillis:       10,
			ReadTimeoutSeconds: 8,
			FrameBytes:         2048,
		},
		Spectrum: SpectrumProfile{
			BinStepHz: 195312.5,
		},
	}
}

// SettleDelay returns the inter-command settle delay as a duration.
func (u UARTProfile) SettleDelay() time.Duration {
	return time.Duration(u.SettleMillis) * time.Millisecond
}

// ReadTimeout returns the frame read timeout as a duration.
func (u UARTProfile) ReadTimeout() time.Duration {
	return time.Duration(u.ReadTimeoutSeconds) * time.Second
}

// Load reads a YAML profile from path. Fields not present in the file keep
// their default values, so a profile may override a single constant.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("hwprofile: read %s: %w", path, err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("hwprofile: parse %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("hwprofile: %s: %w", path, err)
	}

	return p, nil
}

// Validate checks internal consistency of the profile.
func (p Profile) Validate() error {
	if p.ROM.QuantBits <= 0 || p.ROM.WordBits <= 0 {
		return fmt.Errorf("rom bit widths must be > 0: quant=%d word=%d", p.ROM.QuantBits, p.ROM.WordBits)
	}
	if p.ROM.QuantBits > p.ROM.WordBits {
		return fmt.Errorf("rom quant bits %d exceed word bits %d", p.ROM.QuantBits, p.ROM.WordBits)
	}
	if p.ROM.WordBits%8 != 0 {
		return fmt.Errorf("rom word bits must be a multiple of 8: %d", p.ROM.WordBits)
	}
	if p.ROM.AddressBits <= 0 {
		return fmt.Errorf("rom address bits must be > 0: %d", p.ROM.AddressBits)
	}
	if p.UART.Baud <= 0 {
		return fmt.Errorf("uart baud must be > 0: %d", p.UART.Baud)
	}
	if p.UART.SettleMillis < 0 {
		return fmt.Errorf("uart settle must be >= 0 ms: %d", p.UART.SettleMillis)
	}
	if p.UART.ReadTimeoutSeconds <= 0 {
		return fmt.Errorf("uart read timeout must be > 0 s: %d", p.UART.ReadTimeoutSeconds)
	}
	if p.UART.FrameBytes <= 0 || p.UART.FrameBytes%4 != 0 {
		return fmt.Errorf("uart frame bytes must be a positive multiple of 4: %d", p.UART.FrameBytes)
	}
	if p.Spectrum.BinStepHz <= 0 {
		return fmt.Errorf("spectrum bin step must be > 0: %f", p.Spectrum.BinStepHz)
	}
	return nil
}
