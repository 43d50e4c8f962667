package texture

import (
	"errors"
	"fmt"
	"image"
)

const (
	tgaHeaderSize   = 18
	tgaUncompressed = 2
	tgaRLE          = 10
	tgaTopOrigin    = 0x20
)

// ErrTGATruncated is returned when pixel data ends early.
var ErrTGATruncated = errors.New("tga: truncated data")

// DecodeTGA decodes 24/32-bit true-color TGA data, raw or RLE.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, ErrTGATruncated
	}
	if data[1] != 0 {
		return nil, errors.New("tga: color-mapped images not supported")
	}
	kind := data[2]
	if kind != tgaUncompressed && kind != tgaRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", kind)
	}
	w := int(data[12]) | int(data[13])<<8
	h := int(data[14]) | int(data[15])<<8
	bpp := int(data[16]) / 8
	if bpp != 3 && bpp != 4 {
		return nil, fmt.Errorf("tga: unsupported depth %d bits", data[16])
	}
	topOrigin := data[17]&tgaTopOrigin != 0

	src := data[tgaHeaderSize:]
	if skip := int(data[0]); skip <= len(src) {
		src = src[skip:]
	} else {
		return nil, ErrTGATruncated
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	put := func(i int, px []byte) {
		x, y := i%w, i/w
		if !topOrigin {
			y = h - 1 - y
		}
		o := img.PixOffset(x, y)
		img.Pix[o], img.Pix[o+1], img.Pix[o+2] = px[2], px[1], px[0]
		img.Pix[o+3] = 255
		if bpp == 4 {
			img.Pix[o+3] = px[3]
		}
	}

	total := w * h
	if kind == tgaUncompressed {
		if len(src) < total*bpp {
			return nil, ErrTGATruncated
		}
		for i := 0; i < total; i++ {
			put(i, src[i*bpp:])
		}
		return img, nil
	}

	for i, pos := 0, 0; i < total; {
		if pos >= len(src) {
			return nil, ErrTGATruncated
		}
		header := src[pos]
		pos++
		n := int(header&0x7f) + 1
		repeat := header&0x80 != 0
		for k := 0; k < n && i < total; k++ {
			if pos+bpp > len(src) {
				return nil, ErrTGATruncated
			}
			put(i, src[pos:])
			i++
			if !repeat {
				pos += bpp
			}
		}
		if repeat {
			pos += bpp
		}
	}
	return img, nil
}
