package camera

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	// OverlayLayout is the timestamp format stamped on photos.
	OverlayLayout = "02.01.2006 15:04:05"

	fileLayout     = "20060102_150405"
	defaultQuality = 90
	overlayX       = 20
	overlayY       = 40
)

var fileUIDReplacer = strings.NewReplacer(" ", "-", "/", "_", `\`, "_")

// Result describes a stored photo. Time is the instant stamped on the
// photo and should be reused for anything logged about the same scan.
type Result struct {
	Path string
	Time time.Time
}

// Service captures, stamps and stores photos. Each Capture opens and
// releases the device; no camera state is kept between calls.
type Service struct {
	dev      Device
	dir      string
	face     font.Face
	maxWidth int
	quality  int
	now      func() time.Time
	log      *zap.Logger
}

// NewService creates a capture service writing photos into dir.
func NewService(dev Device, dir string, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	var face font.Face = basicfont.Face7x13
	if cfg.Font != "" {
		size := cfg.FontSize
		if size == 0 {
			size = 24
		}
		f, err := gg.LoadFontFace(cfg.Font, size)
		if err != nil {
			logger.Warn("Failed to load overlay font, using built-in font",
				zap.String("font", cfg.Font), zap.Error(err))
		} else {
			face = f
		}
	}

	quality := cfg.Quality
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}

	return &Service{
		dev:      dev,
		dir:      dir,
		face:     face,
		maxWidth: cfg.MaxWidth,
		quality:  quality,
		now:      time.Now,
		log:      logger,
	}
}

// Capture takes one photo for the card uid and stores it.
func (s *Service) Capture(uid string) (Result, error) {
	frame, err := s.grab()
	if err != nil {
		return Result{}, err
	}

	ts := s.now()
	img := s.stamp(s.scale(frame), uid+"  "+ts.Format(OverlayLayout))

	path := filepath.Join(s.dir, FileName(ts, uid))
	if err := s.write(path, img); err != nil {
		return Result{}, err
	}

	s.log.Debug("Photo stored", zap.String("uid", uid), zap.String("path", path))
	return Result{Path: path, Time: ts}, nil
}

func (s *Service) grab() (image.Image, error) {
	h, err := s.dev.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	defer func() {
		if err := h.Close(); err != nil {
			s.log.Warn("Camera release failed", zap.Error(err))
		}
	}()

	frame, err := h.ReadFrame()
	if err != nil {
		if errors.Is(err, ErrFrameReadFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFrameReadFailed, err)
	}
	if frame == nil || frame.Bounds().Empty() {
		return nil, ErrFrameReadFailed
	}
	return frame, nil
}

func (s *Service) scale(img image.Image) image.Image {
	b := img.Bounds()
	if s.maxWidth <= 0 || b.Dx() <= s.maxWidth {
		return img
	}
	h := b.Dy() * s.maxWidth / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// stamp draws text in green at the top left of a copy of img.
func (s *Service) stamp(img image.Image, text string) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetFontFace(s.face)
	dc.SetRGB(0, 1, 0)
	// Offset copies give the text a two pixel stroke.
	for _, d := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		dc.DrawString(text, overlayX+d[0], overlayY+d[1])
	}
	return dc.Image()
}

func (s *Service) write(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPhotoWrite, err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: s.quality}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w: encode %s: %v", ErrPhotoWrite, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: close %s: %v", ErrPhotoWrite, path, err)
	}
	return nil
}

// FileName returns the photo file name for a scan of uid at ts, e.g.
// "20260214_093012_23-91-8F-11.jpg". Two scans of the same card within
// one second map to the same name; the later photo replaces the earlier.
func FileName(ts time.Time, uid string) string {
	return ts.Format(fileLayout) + "_" + fileUIDReplacer.Replace(uid) + ".jpg"
}
