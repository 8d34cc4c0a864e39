// Package acquire drives the capture handshake with the DUT over its UART
// link and reads back one raw IQ frame.
//
// The protocol is two single-byte commands: 0x5A arms the capture and fills
// the device buffer, 0xA5 starts the readback. A minimum settle delay
// between the two gives the device time to fill its buffer; the device has
// no ready signal, so the delay is a hard lower bound, not a heuristic.
package acquire

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Command bytes understood by the DUT firmware.
const (
	// CmdFill arms the capture and fills the device buffer.
	CmdFill byte = 0x5A
	// CmdReadback starts streaming the captured frame.
	CmdReadback byte = 0xA5
)

// Link defaults for the reference target.
const (
	DefaultBaud        = 230400
	DefaultSettleDelay = 10 * time.Millisecond
	DefaultReadTimeout = 8 * time.Second
)

// ShortReadError reports a readback that ended before a full frame arrived.
// It is surfaced to the caller, never retried here.
type ShortReadError struct {
	Received int
	Expected int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("acquire: short read: received %d bytes, expected %d", e.Received, e.Expected)
}

// Session executes capture handshakes over an open bidirectional byte link.
type Session struct {
	port   io.ReadWriter
	settle time.Duration
	sleep  func(time.Duration)
}

// Option configures a [Session].
type Option func(*Session) error

// WithSettleDelay overrides the inter-command settle delay
// (default 10 ms, must be >= 0).
func WithSettleDelay(d time.Duration) Option {
	return func(s *Session) error {
		if d < 0 {
			return fmt.Errorf("acquire: settle delay must be >= 0: %v", d)
		}
		s.settle = d
		return nil
	}
}

// WithSleep replaces the sleep function used for the settle delay.
// Intended for tests; the default is time.Sleep.
func WithSleep(fn func(time.Duration)) Option {
	return func(s *Session) error {
		if fn == nil {
			return fmt.Errorf("acquire: sleep function must not be nil")
		}
		s.sleep = fn
		return nil
	}
}

// NewSession creates a session over an open port.
func NewSession(port io.ReadWriter, opts ...Option) (*Session, error) {
	if port == nil {
		return nil, fmt.Errorf("acquire: port must not be nil")
	}
	s := &Session{
		port:   port,
		settle: DefaultSettleDelay,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Acquire runs one fill/readback handshake and reads exactly frameBytes
// bytes, preserving wire order.
//
// The readback command is only written after the fill command write has
// returned and the settle delay has fully elapsed. If the link stops
// yielding data before the frame is complete, the bytes received so far are
// returned together with a [ShortReadError]; the caller decides whether to
// abort or prompt for a retry.
func (s *Session) Acquire(frameBytes int) ([]byte, error) {
	if frameBytes <= 0 {
		return nil, fmt.Errorf("acquire: frame size must be > 0: %d", frameBytes)
	}

	if err := s.writeCommand(CmdFill); err != nil {
		return nil, err
	}
	s.sleep(s.settle)
	if err := s.writeCommand(CmdReadback); err != nil {
		return nil, err
	}

	buf := make([]byte, frameBytes)
	total := 0
	for total < frameBytes {
		n, err := s.port.Read(buf[total:])
		total += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return buf[:total], fmt.Errorf("acquire: read: %w", err)
		}
		if n == 0 {
			// A zero-byte read without error is the transport's
			// timeout signal; there is no point spinning on it.
			break
		}
	}

	if total != frameBytes {
		return buf[:total], &ShortReadError{Received: total, Expected: frameBytes}
	}
	return buf, nil
}

func (s *Session) writeCommand(cmd byte) error {
	n, err := s.port.Write([]byte{cmd})
	if err != nil {
		return fmt.Errorf("acquire: write command %#02x: %w", cmd, err)
	}
	if n != 1 {
		return fmt.Errorf("acquire: write command %#02x: wrote %d bytes", cmd, n)
	}
	return nil
}

// Open opens the serial link to the DUT: 8 data bits, no parity, 1 stop bit,
// with the given read timeout bounding each read call.
func Open(port string, baud int, readTimeout time.Duration) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		return nil, fmt.Errorf("acquire: baudrate must be > 0: %d", baud)
	}
	link, err := serial.OpenPort(&serial.Config{
		Name:        port,
		Baud:        baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("acquire: open %s: %w", port, err)
	}
	return link, nil
}
