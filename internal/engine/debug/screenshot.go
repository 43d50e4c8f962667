// Package debug provides the screenshot writer and selection overlay.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/hello3d/internal/engine/texture"
)

// ScreenshotCapture writes frames as PNG files named <prefix>_<timestamp>.png.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time

	last  string
	count int
}

// NewScreenshotCapture creates a capture that writes into outputDir.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// CaptureFromPixels saves bottom-up RGBA rows as read back from GL.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid screenshot size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := &image.RGBA{
		Pix:    append([]byte(nil), pixels...),
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	texture.FlipVertical(img)
	return sc.save(img)
}

func (sc *ScreenshotCapture) save(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.nextFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}
	return filename, nil
}

// nextFilename appends a counter when several shots land in the same second.
func (sc *ScreenshotCapture) nextFilename() string {
	stamp := sc.now().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s_%s", sc.prefix, stamp)
	if stamp == sc.last {
		sc.count++
		name = fmt.Sprintf("%s_%d", name, sc.count)
	} else {
		sc.last = stamp
		sc.count = 0
	}
	return filepath.Join(sc.outputDir, name+".png")
}
