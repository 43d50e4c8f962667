// Package texture decodes image files into GL-ready RGBA pixels.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/Faultbox/hello3d/internal/engine/gpu"
	"github.com/Faultbox/hello3d/internal/logger"
)

// Decode reads an image file and returns it as RGBA with rows flipped so the
// first row is the bottom of the picture, matching GL's texture origin.
// PNG, JPEG and BMP are sniffed from the content; TGA is chosen by extension.
func Decode(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	rgba := ToRGBA(img)
	FlipVertical(rgba)
	return rgba, nil
}

// Upload creates a texture from a decoded image. The caller owns the
// returned texture.
func Upload(dev gpu.Device, img *image.RGBA) uint32 {
	tex := dev.CreateTexture(img)
	logger.Debug("texture uploaded",
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Uint32("texture", tex),
	)
	return tex
}

// ToRGBA converts img to *image.RGBA with its origin at (0, 0). An RGBA image
// that already starts at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// FlipVertical mirrors img top to bottom in place.
func FlipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	rowLen := img.Bounds().Dx() * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+rowLen]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
