//go:build linux

package camera

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/blackjack/webcam"
)

const (
	pixFmtYUYV  webcam.PixelFormat = 0x56595559 // 'YUYV'
	pixFmtMJPEG webcam.PixelFormat = 0x47504A4D // 'MJPG'

	defaultWidth   = 1280
	defaultHeight  = 720
	defaultTimeout = 5
)

// V4L2 implements Device for Video4Linux cameras (USB webcams, Pi camera
// with the V4L2 driver).
type V4L2 struct {
	device  string
	width   uint32
	height  uint32
	warmup  int
	timeout uint32
}

// NewV4L2 creates a V4L2 camera device. The device is not opened until
// the first capture.
func NewV4L2(cfg Config) (*V4L2, error) {
	if cfg.Device == "" {
		cfg.Device = "/dev/video0"
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = defaultWidth, defaultHeight
	}
	if cfg.TimeoutSecs == 0 {
		cfg.TimeoutSecs = defaultTimeout
	}
	return &V4L2{
		device:  cfg.Device,
		width:   uint32(cfg.Width),
		height:  uint32(cfg.Height),
		warmup:  cfg.WarmupFrames,
		timeout: uint32(cfg.TimeoutSecs),
	}, nil
}

// Open implements Device.Open.
func (v *V4L2) Open() (Handle, error) {
	cam, err := webcam.Open(v.device)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", v.device, err)
	}

	format, err := pickFormat(cam.GetSupportedFormats())
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("%s: %w", v.device, err)
	}

	format, w, h, err := cam.SetImageFormat(format, v.width, v.height)
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("set image format on %s: %w", v.device, err)
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, fmt.Errorf("start streaming on %s: %w", v.device, err)
	}

	return &v4l2Handle{
		cam:     cam,
		format:  format,
		width:   int(w),
		height:  int(h),
		warmup:  v.warmup,
		timeout: v.timeout,
	}, nil
}

// pickFormat prefers raw YUYV, which always decodes, over MJPEG.
func pickFormat(formats map[webcam.PixelFormat]string) (webcam.PixelFormat, error) {
	if _, ok := formats[pixFmtYUYV]; ok {
		return pixFmtYUYV, nil
	}
	if _, ok := formats[pixFmtMJPEG]; ok {
		return pixFmtMJPEG, nil
	}
	return 0, fmt.Errorf("no supported pixel format (need YUYV or MJPEG), have %v", formats)
}

type v4l2Handle struct {
	cam     *webcam.Webcam
	format  webcam.PixelFormat
	width   int
	height  int
	warmup  int
	timeout uint32
}

// ReadFrame implements Handle.ReadFrame. The first warmup frames are
// discarded.
func (h *v4l2Handle) ReadFrame() (image.Image, error) {
	var frame []byte
	for i := 0; i <= h.warmup; i++ {
		if err := h.cam.WaitForFrame(h.timeout); err != nil {
			return nil, fmt.Errorf("%w: wait for frame: %v", ErrFrameReadFailed, err)
		}
		data, err := h.cam.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("%w: read frame: %v", ErrFrameReadFailed, err)
		}
		frame = data
	}
	if len(frame) == 0 {
		return nil, ErrFrameReadFailed
	}

	if h.format == pixFmtMJPEG {
		img, err := jpeg.Decode(bytes.NewReader(frame))
		if err != nil {
			return nil, fmt.Errorf("%w: decode MJPEG frame: %v", ErrFrameReadFailed, err)
		}
		return img, nil
	}
	return yuyvToImage(frame, h.width, h.height)
}

// Close implements Handle.Close.
func (h *v4l2Handle) Close() error {
	h.cam.StopStreaming()
	return h.cam.Close()
}
