package camera

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestCommandDevice(t *testing.T) {
	src := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(src)
	if err != nil {
		t.Fatalf("create frame: %v", err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 32, 24))); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	f.Close()

	dev, err := NewCommand([]string{"cat", src}, 5)
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	h, err := dev.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	img, err := h.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("unexpected frame size %v", img.Bounds())
	}
}

func TestCommandDeviceMissingProgram(t *testing.T) {
	dev, err := NewCommand([]string{"rfidcam-no-such-camera-tool"}, 5)
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	s := NewService(dev, t.TempDir(), Config{}, nil)

	if _, err := s.Capture("AA"); !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
}

func TestCommandDeviceEmptyOutput(t *testing.T) {
	dev, err := NewCommand([]string{"true"}, 5)
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	s := NewService(dev, t.TempDir(), Config{}, nil)

	if _, err := s.Capture("AA"); !errors.Is(err, ErrFrameReadFailed) {
		t.Fatalf("expected ErrFrameReadFailed, got %v", err)
	}
}

func TestNewCommandRequiresArgs(t *testing.T) {
	if _, err := NewCommand(nil, 0); err == nil {
		t.Fatal("expected error for empty command")
	}
}
