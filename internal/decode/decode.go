// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package decode turns encoded image streams into tightly packed pixel rows.
//
// Supported formats: PNG, JPEG and GIF from the standard library, BMP, TIFF
// and WebP from golang.org/x/image. The container type is sniffed first so
// that non-image input (archives, audio, documents) is rejected with
// ErrUnsupportedFormat instead of a generic decoder error.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG

	"github.com/h2non/filetype"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// Decoding errors.
var (
	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("decode: empty data")

	// ErrUnsupportedFormat is returned when the data is not a supported image.
	ErrUnsupportedFormat = errors.New("decode: unsupported format")

	// ErrInvalidLayout is returned for an unknown pixel layout.
	ErrInvalidLayout = errors.New("decode: invalid pixel layout")
)

// Layout is the channel layout of decoded pixels.
type Layout uint8

const (
	// RGBA is four 8-bit channels, non-premultiplied.
	RGBA Layout = iota
	// RGB is three 8-bit channels.
	RGB
	// Alpha is the alpha channel only.
	Alpha
	// Luminance is Rec. 601 luma.
	Luminance
	// LuminanceAlpha is luma followed by alpha.
	LuminanceAlpha

	layoutCount
)

var layoutSizes = [layoutCount]int{
	RGBA:           4,
	RGB:            3,
	Alpha:          1,
	Luminance:      1,
	LuminanceAlpha: 2,
}

// BytesPerPixel returns the pixel size, or 0 for unknown layouts.
func (l Layout) BytesPerPixel() int {
	if l >= layoutCount {
		return 0
	}
	return layoutSizes[l]
}

// Image is a decoded image in a packed layout.
type Image struct {
	Pix           []byte
	Width         int
	Height        int
	BytesPerPixel int

	// Format is the container name reported by the codec ("png", "jpeg", ...).
	Format string
}

// Sniff reports the file extension of the detected container type.
// Returns ErrUnsupportedFormat for recognized non-image types; unknown
// types return an empty string and no error so codecs can still try.
func Sniff(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", nil
	}
	if kind.MIME.Type != "image" {
		return kind.Extension, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}
	return kind.Extension, nil
}

// Decode decodes data and packs it into layout.
func Decode(data []byte, layout Layout) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmptyData
	}
	if layout >= layoutCount {
		return Image{}, fmt.Errorf("%w: %d", ErrInvalidLayout, layout)
	}
	if _, err := Sniff(data); err != nil {
		return Image{}, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Image{}, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return Image{}, fmt.Errorf("decode: %s: %w", format, err)
	}

	out := Pack(img, layout)
	out.Format = format
	return out, nil
}

// Pack converts img to a tightly packed buffer in layout.
func Pack(img image.Image, layout Layout) Image {
	src := toNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	bpp := layout.BytesPerPixel()

	out := Image{
		Width:         w,
		Height:        h,
		BytesPerPixel: bpp,
	}

	if layout == RGBA {
		out.Pix = src.Pix
		return out
	}

	out.Pix = make([]byte, w*h*bpp)
	for i, o := 0, 0; i < len(src.Pix); i, o = i+4, o+bpp {
		r, g, b, a := src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]
		switch layout {
		case RGB:
			out.Pix[o], out.Pix[o+1], out.Pix[o+2] = r, g, b
		case Alpha:
			out.Pix[o] = a
		case Luminance:
			out.Pix[o] = luma(r, g, b)
		case LuminanceAlpha:
			out.Pix[o], out.Pix[o+1] = luma(r, g, b), a
		}
	}
	return out
}

// toNRGBA returns img as a zero-origin NRGBA image with a tight stride.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// luma uses the same Rec. 601 weights as color.GrayModel.
func luma(r, g, b byte) byte {
	y := (19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16
	return byte(y)
}
