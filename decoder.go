// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gtex

import (
	"fmt"

	"github.com/gogpu/gtex/internal/decode"
)

// Image is a decoded image packed tightly in a PixelFormat.
type Image struct {
	Pix           []byte
	Width         int
	Height        int
	BytesPerPixel int
}

// Decoder turns an encoded image into pixels of the requested format.
type Decoder interface {
	Decode(data []byte, format PixelFormat) (Image, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(data []byte, format PixelFormat) (Image, error)

// Decode calls f(data, format).
func (f DecoderFunc) Decode(data []byte, format PixelFormat) (Image, error) {
	return f(data, format)
}

// DefaultDecoder returns the decoder used when no WithDecoder option is
// given. It decodes PNG, JPEG, GIF, BMP, TIFF and WebP.
func DefaultDecoder() Decoder { return defaultDecoder{} }

type defaultDecoder struct{}

func (defaultDecoder) Decode(data []byte, format PixelFormat) (Image, error) {
	layout, ok := decodeLayout(format)
	if !ok {
		return Image{}, fmt.Errorf("%w: pixel format %d", ErrInvalidOption, format)
	}
	img, err := decode.Decode(data, layout)
	if err != nil {
		return Image{}, err
	}
	return Image{
		Pix:           img.Pix,
		Width:         img.Width,
		Height:        img.Height,
		BytesPerPixel: img.BytesPerPixel,
	}, nil
}

func decodeLayout(f PixelFormat) (decode.Layout, bool) {
	switch f {
	case PixelFormatRGBA:
		return decode.RGBA, true
	case PixelFormatRGB:
		return decode.RGB, true
	case PixelFormatAlpha:
		return decode.Alpha, true
	case PixelFormatLuminance:
		return decode.Luminance, true
	case PixelFormatLuminanceAlpha:
		return decode.LuminanceAlpha, true
	}
	return 0, false
}
