// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package decode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 128})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 0})
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestDecodeLayouts(t *testing.T) {
	data := encodePNG(t, testImage())

	tests := []struct {
		layout Layout
		want   []byte
	}{
		{RGBA, []byte{255, 0, 0, 255, 0, 255, 0, 128, 0, 0, 255, 0, 255, 255, 255, 255}},
		{RGB, []byte{255, 0, 0, 0, 255, 0, 0, 0, 255, 255, 255, 255}},
		{Alpha, []byte{255, 128, 0, 255}},
		{Luminance, []byte{76, 150, 29, 255}},
		{LuminanceAlpha, []byte{76, 255, 150, 128, 29, 0, 255, 255}},
	}

	for _, tt := range tests {
		img, err := Decode(data, tt.layout)
		if err != nil {
			t.Fatalf("Decode(layout=%d) error = %v", tt.layout, err)
		}
		if img.Width != 2 || img.Height != 2 {
			t.Errorf("Decode(layout=%d) size = %dx%d, want 2x2", tt.layout, img.Width, img.Height)
		}
		if img.BytesPerPixel != tt.layout.BytesPerPixel() {
			t.Errorf("Decode(layout=%d) bpp = %d, want %d", tt.layout, img.BytesPerPixel, tt.layout.BytesPerPixel())
		}
		if img.Format != "png" {
			t.Errorf("Decode(layout=%d) format = %q, want png", tt.layout, img.Format)
		}
		if !bytes.Equal(img.Pix, tt.want) {
			t.Errorf("Decode(layout=%d) pix = %v, want %v", tt.layout, img.Pix, tt.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	zip := []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00, 0x00, 0x00, 0x08, 0x00}

	tests := []struct {
		name   string
		data   []byte
		layout Layout
		want   error
	}{
		{"empty", nil, RGBA, ErrEmptyData},
		{"garbage", []byte("definitely not an image"), RGBA, ErrUnsupportedFormat},
		{"zip", zip, RGBA, ErrUnsupportedFormat},
		{"layout", []byte{1}, Layout(42), ErrInvalidLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, tt.layout)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := encodePNG(t, testImage())
	_, err := Decode(data[:len(data)/2], RGBA)
	if err == nil {
		t.Fatal("Decode(truncated) error = nil, want error")
	}
}

func TestSniff(t *testing.T) {
	ext, err := Sniff(encodePNG(t, testImage()))
	if err != nil || ext != "png" {
		t.Errorf("Sniff(png) = %q, %v, want png, nil", ext, err)
	}
	ext, err = Sniff([]byte("plain text"))
	if err != nil || ext != "" {
		t.Errorf("Sniff(text) = %q, %v, want \"\", nil", ext, err)
	}
}

func TestPackOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	src.SetNRGBA(6, 5, color.NRGBA{R: 5, G: 6, B: 7, A: 8})

	img := Pack(src, RGBA)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if img.Width != 2 || img.Height != 1 || !bytes.Equal(img.Pix, want) {
		t.Errorf("Pack() = %dx%d %v, want 2x1 %v", img.Width, img.Height, img.Pix, want)
	}
}

func TestLayoutBytesPerPixel(t *testing.T) {
	if got := Layout(99).BytesPerPixel(); got != 0 {
		t.Errorf("Layout(99).BytesPerPixel() = %d, want 0", got)
	}
}
