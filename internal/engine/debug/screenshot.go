package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/x3d/internal/logger"
)

// Screenshots writes numbered, timestamped PNG captures to a directory.
type Screenshots struct {
	Dir    string
	Prefix string

	// now is replaced in tests.
	now  func() time.Time
	last string
	seq  int
}

// NewScreenshots creates a capture handler writing to dir.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{Dir: dir, Prefix: prefix, now: time.Now}
}

// NextFilename returns the path of the next capture. Captures within the same
// second get an increasing suffix.
func (s *Screenshots) NextFilename() string {
	stamp := s.now().Format("2006-01-02_15-04-05")
	if stamp == s.last {
		s.seq++
	} else {
		s.last, s.seq = stamp, 0
	}
	name := fmt.Sprintf("%s_%s.png", s.Prefix, stamp)
	if s.seq > 0 {
		name = fmt.Sprintf("%s_%s_%d.png", s.Prefix, stamp, s.seq)
	}
	if s.Dir != "" {
		name = filepath.Join(s.Dir, name)
	}
	return name
}

// CapturePixels saves bottom-up RGBA rows, as read back from the framebuffer.
func (s *Screenshots) CapturePixels(pixels []byte, width, height int) (string, error) {
	img, err := FlipRGBA(pixels, width, height)
	if err != nil {
		return "", err
	}
	return s.CaptureImage(img)
}

// CaptureImage saves img and returns its path.
func (s *Screenshots) CaptureImage(img image.Image) (string, error) {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	path := s.NextFilename()
	if err := SavePNG(path, img); err != nil {
		return "", err
	}
	logger.Info("screenshot saved", zap.String("path", path))
	return path, nil
}

// FlipRGBA copies width*height*4 bytes of bottom-up rows into a top-down image.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		dst := y * img.Stride
		copy(img.Pix[dst:dst+row], pixels[src:src+row])
	}
	return img, nil
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return f.Close()
}
