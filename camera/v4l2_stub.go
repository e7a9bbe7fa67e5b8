//go:build !linux

package camera

import "errors"

// ErrV4L2NotSupported is returned by NewV4L2 on non-linux platforms.
var ErrV4L2NotSupported = errors.New("v4l2 camera not supported on this platform")

// NewV4L2 returns an error on non-linux platforms.
func NewV4L2(cfg Config) (Device, error) {
	return nil, ErrV4L2NotSupported
}
