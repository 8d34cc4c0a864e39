package rom

import "fmt"

type config struct {
	rangeBits int
	saturate  bool
}

// Option configures an [Encoder].
type Option func(*config) error

// WithRangeBits sets the quantization range width in bits (default: the word
// width). Values are checked against +/- 2^(bits-1) regardless of how many
// bits the serialized word carries.
func WithRangeBits(bits int) Option {
	return func(cfg *config) error {
		if bits < 1 || bits > 64 {
			return fmt.Errorf("rom: range bits must be in [1, 64]: %d", bits)
		}
		cfg.rangeBits = bits
		return nil
	}
}

// WithSaturation enables or disables saturation on overflow (default true).
// With saturation disabled, out-of-range samples fail with a [RangeError].
func WithSaturation(enabled bool) Option {
	return func(cfg *config) error {
		cfg.saturate = enabled
		return nil
	}
}
