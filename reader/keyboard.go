//go:build linux

package reader

import (
	"context"
	"fmt"

	"github.com/kenshaw/evdev"
	"go.uber.org/zap"
)

// Keyboard implements LineSource for USB keyboard-style RFID readers
// that type the card number followed by Enter.
type Keyboard struct {
	device *evdev.Evdev
	format keyboardFormat
	events <-chan *evdev.EventEnvelope
	cancel context.CancelFunc
	log    *zap.Logger
}

// NewKeyboard creates a new keyboard reader on the specified input device.
// Format specifies the input format: "10h" (10 hex digits), "10d" (10 decimal), "8h", "8d", etc.
func NewKeyboard(device string, format string, logger *zap.Logger) (*Keyboard, error) {
	dev, err := evdev.OpenFile(device)
	if err != nil {
		return nil, fmt.Errorf("%w: open evdev %s: %v", ErrConnection, device, err)
	}

	kf := parseFormat(format)
	logger.Info("Opened keyboard device",
		zap.String("name", dev.Name()),
		zap.String("format", kf.name),
	)

	ctx, cancel := context.WithCancel(context.Background())
	return &Keyboard{
		device: dev,
		format: kf,
		events: dev.Poll(ctx),
		cancel: cancel,
		log:    logger,
	}, nil
}

// ReadLine implements LineSource.ReadLine for keyboard readers.
// Reads digits until Enter is pressed and returns them as a card line.
func (k *Keyboard) ReadLine(ctx context.Context) (string, error) {
	var strbuf string

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case event := <-k.events:
			if event == nil {
				return "", fmt.Errorf("%w: keyboard device closed", ErrConnection)
			}

			switch event.Type.(type) {
			case evdev.KeyType:
				if event.Value != 1 {
					continue
				}

				if event.Type == evdev.KeyEnter {
					if strbuf == "" {
						continue
					}
					line, err := k.format.cardLine(strbuf)
					if err != nil {
						k.log.Warn("Bad badge", zap.Error(err))
						strbuf = ""
						continue
					}
					return line, nil
				}

				strbuf += evdev.KeyType(event.Code).String()
			}
		}
	}
}

// Close implements LineSource.Close.
func (k *Keyboard) Close() error {
	k.cancel()
	if k.device == nil {
		return nil
	}
	return k.device.Close()
}
