package rom

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
)

func mustEncoder(t *testing.T, wordBits int, opts ...Option) *Encoder {
	t.Helper()
	enc, err := NewEncoder(wordBits, opts...)
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	return enc
}

func TestEncodeWordWidthAndCase(t *testing.T) {
	enc := mustEncoder(t, 16)
	line := enc.EncodeWord(-81)
	if line != "ffaf" {
		t.Fatalf("EncodeWord(-81) = %q, want %q", line, "ffaf")
	}
	if len(line) != 4 {
		t.Fatalf("len = %d, want 4", len(line))
	}
	if line != strings.ToLower(line) {
		t.Fatalf("line %q not lowercase", line)
	}
}

func TestHexRoundTrip(t *testing.T) {
	enc := mustEncoder(t, 16, WithRangeBits(14))
	values := []float64{0, 1, -1, 80.9, -80.9, 8191.2, -8192.0, 0.5, -0.5}
	for _, v := range values {
		line, err := enc.EncodeLine(0, v)
		if err != nil {
			t.Fatalf("EncodeLine(%v) error = %v", v, err)
		}
		raw, err := strconv.ParseUint(line, 16, 64)
		if err != nil {
			t.Fatalf("ParseUint(%q) error = %v", line, err)
		}
		decoded := int64(int16(raw))
		want := int64(math.Trunc(v))
		if decoded != want {
			t.Fatalf("round trip %v: got %d, want %d", v, decoded, want)
		}
	}
}

func TestQuantizeTruncatesTowardZero(t *testing.T) {
	enc := mustEncoder(t, 16)
	cases := []struct {
		in   float64
		want int64
	}{
		{2.9, 2},
		{-2.9, -2},
		{0.999, 0},
		{-0.999, 0},
	}
	for _, tc := range cases {
		got, err := enc.Quantize(0, tc.in)
		if err != nil {
			t.Fatalf("Quantize(%v) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Quantize(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSaturationDefault(t *testing.T) {
	enc := mustEncoder(t, 16, WithRangeBits(14))

	hi, err := enc.Quantize(0, 1e9)
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	if hi != 8191 {
		t.Fatalf("saturated high = %d, want 8191", hi)
	}

	lo, err := enc.Quantize(0, -1e9)
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	if lo != -8192 {
		t.Fatalf("saturated low = %d, want -8192", lo)
	}
}

func TestSaturationBeyondInt64Range(t *testing.T) {
	enc := mustEncoder(t, 16, WithRangeBits(14))

	hi, err := enc.Quantize(0, 1e19)
	if err != nil {
		t.Fatalf("Quantize(1e19) error = %v", err)
	}
	if hi != 8191 {
		t.Fatalf("Quantize(1e19) = %d, want 8191 (saturate high)", hi)
	}

	lo, err := enc.Quantize(0, -1e19)
	if err != nil {
		t.Fatalf("Quantize(-1e19) error = %v", err)
	}
	if lo != -8192 {
		t.Fatalf("Quantize(-1e19) = %d, want -8192 (saturate low)", lo)
	}
}

func TestSaturationInfinities(t *testing.T) {
	enc := mustEncoder(t, 16, WithRangeBits(14))

	hi, err := enc.Quantize(0, math.Inf(1))
	if err != nil {
		t.Fatalf("Quantize(+Inf) error = %v", err)
	}
	if hi != 8191 {
		t.Fatalf("Quantize(+Inf) = %d, want 8191", hi)
	}

	lo, err := enc.Quantize(0, math.Inf(-1))
	if err != nil {
		t.Fatalf("Quantize(-Inf) error = %v", err)
	}
	if lo != -8192 {
		t.Fatalf("Quantize(-Inf) = %d, want -8192", lo)
	}
}

func TestRailBoundaries(t *testing.T) {
	enc := mustEncoder(t, 16, WithRangeBits(14))
	cases := []struct {
		in   float64
		want int64
	}{
		{8191.0, 8191},
		{8191.9, 8191},   // fractional, still truncates inside the rail
		{-8192.9, -8192}, // truncation toward zero keeps this in range
		{8192.0, 8191},
		{-8193.0, -8192},
	}
	for _, tc := range cases {
		got, err := enc.Quantize(0, tc.in)
		if err != nil {
			t.Fatalf("Quantize(%v) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Quantize(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestStrictRangeHugeValue(t *testing.T) {
	enc := mustEncoder(t, 16, WithRangeBits(14), WithSaturation(false))

	_, err := enc.Quantize(3, 1e19)
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("Quantize(1e19) error = %v, want *RangeError", err)
	}
	if re.Index != 3 || re.Value != 1e19 {
		t.Fatalf("RangeError = %+v, want Index=3 Value=1e19", re)
	}

	_, err = enc.Quantize(4, math.Inf(1))
	if !errors.As(err, &re) {
		t.Fatalf("Quantize(+Inf) error = %v, want *RangeError", err)
	}
	if !math.IsInf(re.Value, 1) {
		t.Fatalf("RangeError.Value = %v, want +Inf", re.Value)
	}
}

func TestStrictRangeFails(t *testing.T) {
	enc := mustEncoder(t, 16, WithRangeBits(14), WithSaturation(false))

	_, err := enc.Quantize(7, 9000)
	if err == nil {
		t.Fatal("expected range error")
	}
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T, want *RangeError", err)
	}
	if re.Index != 7 || re.Value != 9000 || re.Lo != -8192 || re.Hi != 8191 {
		t.Fatalf("RangeError = %+v", re)
	}
}

func TestQuantizeRejectsNaN(t *testing.T) {
	enc := mustEncoder(t, 16)
	if _, err := enc.Quantize(0, math.NaN()); err == nil {
		t.Fatal("expected error for NaN sample")
	}
}

func TestWriteLineLayout(t *testing.T) {
	enc := mustEncoder(t, 16, WithRangeBits(14))
	samples := []float64{0, 80.5, -81.4, 8191}

	var sb strings.Builder
	if err := enc.Write(&sb, samples); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := sb.String()
	if !strings.HasSuffix(out, "\n") {
		t.Fatal("output must end with newline")
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != len(samples) {
		t.Fatalf("line count = %d, want %d", len(lines), len(samples))
	}
	want := []string{"0000", "0050", "ffaf", "1fff"}
	for i, l := range lines {
		if l != want[i] {
			t.Fatalf("line %d = %q, want %q", i, l, want[i])
		}
	}
}

func TestWriteStrictPropagatesRangeError(t *testing.T) {
	enc := mustEncoder(t, 16, WithRangeBits(14), WithSaturation(false))
	var sb strings.Builder
	err := enc.Write(&sb, []float64{0, 1e9})
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("Write() error = %v, want *RangeError", err)
	}
	if re.Index != 1 {
		t.Fatalf("RangeError.Index = %d, want 1", re.Index)
	}
}

func TestNewEncoderRejectsBadWidths(t *testing.T) {
	for _, bits := range []int{0, 4, 12, 72} {
		if _, err := NewEncoder(bits); err == nil {
			t.Fatalf("NewEncoder(%d): expected error", bits)
		}
	}
	if _, err := NewEncoder(16, WithRangeBits(17)); err == nil {
		t.Fatal("expected error for range bits > word bits")
	}
}

func TestEncoderWidths(t *testing.T) {
	enc := mustEncoder(t, 32)
	if got := enc.EncodeWord(-1); got != "ffffffff" {
		t.Fatalf("EncodeWord(-1) = %q, want ffffffff", got)
	}
	enc8 := mustEncoder(t, 8)
	if got := enc8.EncodeWord(-128); got != "80" {
		t.Fatalf("EncodeWord(-128) = %q, want 80", got)
	}
}
