package boardfx

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Screenshot queues a labeled screenshot of the rendered board, captured at
// the end of the next Draw. The PNG is written to Config.ScreenshotDir with
// a timestamped file name. Safe to call from Update or Draw.
func (h *EbitenHost) Screenshot(label string) {
	h.screenshots = append(h.screenshots, label)
}

// flushScreenshots captures img for every queued label.
func (h *EbitenHost) flushScreenshots(img *ebiten.Image) {
	if len(h.screenshots) == 0 {
		return
	}
	defer func() { h.screenshots = h.screenshots[:0] }()

	b := img.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	img.ReadPixels(pixels)
	shot := straightAlpha(pixels, b.Dx(), b.Dy())

	dir := "screenshots"
	log := zap.NewNop()
	if h.engine != nil {
		if h.engine.cfg.ScreenshotDir != "" {
			dir = h.engine.cfg.ScreenshotDir
		}
		log = h.engine.log
	}
	paths, err := saveScreenshots(dir, time.Now(), h.screenshots, shot)
	if err != nil {
		log.Error("screenshot failed", zap.Error(err))
	}
	for _, p := range paths {
		log.Info("screenshot saved", zap.String("path", p))
	}
}

// straightAlpha converts premultiplied RGBA pixels to a straight-alpha
// NRGBA image.
func straightAlpha(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// saveScreenshots writes img once per label into dir and returns the paths
// written. It stops at the first failure.
func saveScreenshots(dir string, now time.Time, labels []string, img image.Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("screenshot: mkdir %s: %w", dir, err)
	}
	stamp := now.Format("20060102_150405")
	paths := make([]string, 0, len(labels))
	for _, label := range labels {
		path := filepath.Join(dir, stamp+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			return paths, fmt.Errorf("screenshot: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
