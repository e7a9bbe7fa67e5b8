package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os/exec"
	"time"
)

// Command implements Device by running an external capture program that
// writes a single JPEG or PNG image to stdout, e.g.
//
//	fswebcam --no-banner --png -1 -
//	libcamera-still -n -o -
type Command struct {
	args    []string
	timeout time.Duration
}

// NewCommand creates a command camera device.
func NewCommand(args []string, timeoutSecs int) (*Command, error) {
	if len(args) == 0 {
		return nil, errors.New("camera command not configured")
	}
	if timeoutSecs <= 0 {
		timeoutSecs = 10
	}
	return &Command{args: args, timeout: time.Duration(timeoutSecs) * time.Second}, nil
}

// Open implements Device.Open. It only checks that the program exists.
func (c *Command) Open() (Handle, error) {
	path, err := exec.LookPath(c.args[0])
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.args[0], err)
	}
	return &commandHandle{path: path, args: c.args[1:], timeout: c.timeout}, nil
}

type commandHandle struct {
	path    string
	args    []string
	timeout time.Duration
}

// ReadFrame implements Handle.ReadFrame.
func (h *commandHandle) ReadFrame() (image.Image, error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, h.path, h.args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrFrameReadFailed, h.path, err, bytes.TrimSpace(stderr.Bytes()))
	}
	if len(out) == 0 {
		return nil, ErrFrameReadFailed
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s output: %v", ErrFrameReadFailed, h.path, err)
	}
	return img, nil
}

// Close implements Handle.Close.
func (h *commandHandle) Close() error {
	return nil
}
