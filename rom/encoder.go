// Package rom quantizes synthesized samples and serializes them as a memory
// initialization file: one lowercase hex word per line, signed big-endian,
// one line per ROM address.
package rom

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
)

// RangeError reports a sample outside the representable quantization range.
// Value is the offending sample before truncation; it may exceed int64 or be
// NaN/Inf, so it is carried as a float.
type RangeError struct {
	Index int
	Value float64
	Lo    int64
	Hi    int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("rom: sample %d value %g outside range [%d, %d]", e.Index, e.Value, e.Lo, e.Hi)
}

// Encoder converts float samples to fixed-width signed hex words.
//
// Samples are truncated toward zero, never rounded, so a serialized word
// decodes back to exactly int(sample). Values beyond the quantization range
// are saturated to the range limits by default; the original toolchain let
// them wrap silently through fixed-width integer conversion, which is not a
// behavior worth reproducing. Strict mode turns overflow into a RangeError
// instead.
type Encoder struct {
	wordBits  int
	rangeBits int
	saturate  bool

	lo, hi int64
}

// NewEncoder creates an encoder for the given ROM word width in bits.
// The width must be a multiple of 8 in [8, 64].
func NewEncoder(wordBits int, opts ...Option) (*Encoder, error) {
	if wordBits < 8 || wordBits > 64 || wordBits%8 != 0 {
		return nil, fmt.Errorf("rom: word width must be a multiple of 8 in [8, 64]: %d", wordBits)
	}

	cfg := config{
		rangeBits: wordBits,
		saturate:  true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.rangeBits > wordBits {
		return nil, fmt.Errorf("rom: range bits %d exceed word width %d", cfg.rangeBits, wordBits)
	}

	enc := &Encoder{
		wordBits:  wordBits,
		rangeBits: cfg.rangeBits,
		saturate:  cfg.saturate,
	}
	enc.lo = -(int64(1) << (enc.rangeBits - 1))
	enc.hi = (int64(1) << (enc.rangeBits - 1)) - 1
	return enc, nil
}

// WordBits returns the configured word width in bits.
func (e *Encoder) WordBits() int { return e.wordBits }

// RangeBits returns the quantization range width in bits.
func (e *Encoder) RangeBits() int { return e.rangeBits }

// Range returns the inclusive quantized value range.
func (e *Encoder) Range() (lo, hi int64) { return e.lo, e.hi }

// Quantize truncates v toward zero and applies the overflow policy.
// The index is only used for error reporting.
func (e *Encoder) Quantize(index int, v float64) (int64, error) {
	if math.IsNaN(v) {
		return 0, &RangeError{Index: index, Value: v, Lo: e.lo, Hi: e.hi}
	}
	// The range is checked on the float side before any conversion:
	// converting a float beyond int64's range is implementation-defined
	// and would land huge positive samples on the negative rail. The
	// +1/-1 slack keeps fractional values just past the rails on the
	// truncation path. Infinities land here too.
	if v >= float64(e.hi)+1 {
		if !e.saturate {
			return 0, &RangeError{Index: index, Value: v, Lo: e.lo, Hi: e.hi}
		}
		return e.hi, nil
	}
	if v <= float64(e.lo)-1 {
		if !e.saturate {
			return 0, &RangeError{Index: index, Value: v, Lo: e.lo, Hi: e.hi}
		}
		return e.lo, nil
	}
	return int64(math.Trunc(v)), nil
}

// EncodeWord renders a quantized value as a lowercase big-endian hex string
// of exactly wordBits/4 digits.
func (e *Encoder) EncodeWord(q int64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(q))
	return hex.EncodeToString(buf[8-e.wordBits/8:])
}

// EncodeLine quantizes one sample and renders it as a hex line body.
func (e *Encoder) EncodeLine(index int, v float64) (string, error) {
	q, err := e.Quantize(index, v)
	if err != nil {
		return "", err
	}
	return e.EncodeWord(q), nil
}

// Write serializes samples to w, one newline-terminated hex word per sample.
func (e *Encoder) Write(w io.Writer, samples []float64) error {
	bw := bufio.NewWriter(w)
	for i, v := range samples {
		line, err := e.EncodeLine(i, v)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("rom: write: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("rom: write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("rom: write: %w", err)
	}
	return nil
}
