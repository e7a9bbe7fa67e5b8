//go:build !linux

package reader

import (
	"fmt"

	"go.uber.org/zap"
)

// NewPipe returns an error on non-linux platforms.
func NewPipe(path string) (LineSource, error) {
	return nil, fmt.Errorf("%w: named pipe reader not supported on this platform", ErrConnection)
}

// NewKeyboard returns an error on non-linux platforms.
func NewKeyboard(device string, format string, logger *zap.Logger) (LineSource, error) {
	return nil, fmt.Errorf("%w: keyboard reader not supported on this platform", ErrConnection)
}
