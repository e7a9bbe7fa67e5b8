package reader

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// ErrConnection marks a failure of the link to the reader itself. Callers
// treat it as terminal for the reading session.
var ErrConnection = errors.New("reader connection failed")

// maxPending bounds the bytes buffered while waiting for a newline.
const maxPending = 4096

// LineSource is the interface for all reader implementations.
type LineSource interface {
	// ReadLine returns the next complete line from the reader, without its
	// terminator. A return of ("", nil) indicates that no complete line
	// arrived (e.g., read timeout) and the caller should try again.
	ReadLine(ctx context.Context) (string, error)

	// Close releases the underlying device. A ReadLine blocked in another
	// goroutine returns once the device is closed.
	Close() error
}

// Config holds common configuration for reader implementations.
type Config struct {
	Type   string `yaml:"type"`   // "serial", "pipe", "keyboard"
	Device string `yaml:"device"` // e.g., "/dev/ttyACM0", "/tmp/rfidcam-lines", "/dev/input/event0"
	Baud   int    `yaml:"baud"`   // baud rate for serial devices
	Format string `yaml:"format"` // keyboard digit format, e.g. "8h", "10d"
}

// New creates a LineSource based on the provided configuration.
func New(cfg Config, logger *zap.Logger) (LineSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Type {
	case "pipe":
		return NewPipe(cfg.Device)
	case "keyboard":
		return NewKeyboard(cfg.Device, cfg.Format, logger)
	default:
		return NewSerial(cfg.Device, cfg.Baud)
	}
}

// lineBuffer accumulates raw bytes and splits them into lines.
type lineBuffer struct {
	pending []byte
}

func (b *lineBuffer) write(p []byte) {
	b.pending = append(b.pending, p...)
	if len(b.pending) > maxPending && bytes.IndexByte(b.pending, '\n') < 0 {
		// Runaway chatter with no terminator; nothing in it can be a card line.
		b.pending = b.pending[:0]
	}
}

func (b *lineBuffer) next() (string, bool) {
	i := bytes.IndexByte(b.pending, '\n')
	if i < 0 {
		return "", false
	}
	line := cleanLine(b.pending[:i])
	b.pending = append(b.pending[:0], b.pending[i+1:]...)
	return line, true
}

// cleanLine drops the carriage return and any invalid UTF-8 sequences.
func cleanLine(p []byte) string {
	return strings.ToValidUTF8(strings.TrimRight(string(p), "\r"), "")
}
