package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tarm/serial"
)

const defaultBaud = 9600

// Serial implements LineSource for readers that print text lines on a
// serial port, such as an Arduino with an RC522 module.
type Serial struct {
	port   io.ReadCloser
	device string
	buf    lineBuffer
	chunk  []byte
}

// NewSerial opens a serial line reader. A zero baud selects 9600.
func NewSerial(device string, baud int) (*Serial, error) {
	if baud == 0 {
		baud = defaultBaud
	}
	c := &serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: time.Second,
	}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("%w: open serial %s: %v", ErrConnection, device, err)
	}

	return newSerial(port, device), nil
}

func newSerial(port io.ReadCloser, device string) *Serial {
	return &Serial{port: port, device: device, chunk: make([]byte, 256)}
}

// ReadLine implements LineSource.ReadLine for serial readers.
// It performs at most one port read, bounded by the port read timeout.
func (s *Serial) ReadLine(ctx context.Context) (string, error) {
	if line, ok := s.buf.next(); ok {
		return line, nil
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	n, err := s.port.Read(s.chunk)
	if n > 0 {
		s.buf.write(s.chunk[:n])
	}
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: read %s: %v", ErrConnection, s.device, err)
		}
		// Timeout with no data. A vanished device node means the adapter
		// was unplugged and the tty was hung up.
		if n == 0 && s.device != "" {
			if _, statErr := os.Stat(s.device); errors.Is(statErr, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s disappeared", ErrConnection, s.device)
			}
		}
	}

	line, _ := s.buf.next()
	return line, nil
}

// Close implements LineSource.Close.
func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}
