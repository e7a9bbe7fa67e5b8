// Package camera takes one still photo per card scan, stamps it with the
// card UID and time, and stores it as a JPEG.
package camera

import (
	"errors"
	"image"
)

var (
	// ErrDeviceUnavailable is returned when the camera cannot be opened.
	ErrDeviceUnavailable = errors.New("camera unavailable")

	// ErrFrameReadFailed is returned when the camera opened but produced no frame.
	ErrFrameReadFailed = errors.New("camera returned no frame")

	// ErrPhotoWrite is returned when the stamped photo cannot be stored.
	ErrPhotoWrite = errors.New("photo write failed")
)

// Device is a camera that can be opened for a single capture.
type Device interface {
	// Open acquires exclusive access to the camera.
	Open() (Handle, error)
}

// Handle is an open camera. It must be closed after use.
type Handle interface {
	// ReadFrame returns one frame from the camera.
	ReadFrame() (image.Image, error)

	// Close releases the camera.
	Close() error
}

// Config holds configuration for the camera and the photos it produces.
type Config struct {
	Type         string   `yaml:"type"`          // "v4l2", "command"
	Device       string   `yaml:"device"`        // e.g., "/dev/video0"
	Width        int      `yaml:"width"`         // requested frame width
	Height       int      `yaml:"height"`        // requested frame height
	WarmupFrames int      `yaml:"warmup_frames"` // frames discarded while exposure settles
	TimeoutSecs  int      `yaml:"timeout_secs"`  // per-frame wait
	Command      []string `yaml:"command"`       // e.g., ["fswebcam", "--no-banner", "--png", "-1", "-"]

	Font     string  `yaml:"font"`      // TTF used for the overlay (empty = built-in bitmap font)
	FontSize float64 `yaml:"font_size"` // points
	MaxWidth int     `yaml:"max_width"` // downscale wider frames (0 = keep)
	Quality  int     `yaml:"quality"`   // JPEG quality 1-100
}

// New creates a Device based on the provided configuration.
func New(cfg Config) (Device, error) {
	switch cfg.Type {
	case "command":
		return NewCommand(cfg.Command, cfg.TimeoutSecs)
	default:
		return NewV4L2(cfg)
	}
}
