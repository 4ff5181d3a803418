// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gtex"
	"github.com/gogpu/gtex/internal/decode"
)

func TestInspectFile(t *testing.T) {
	path := writePNG(t, 8, 4)

	opts := gtex.DefaultOptions()
	opts.GenerateMipmaps = true
	opts.DisplayScale = 0.5

	r, err := inspectFile(path, opts, "sprite")
	if err != nil {
		t.Fatalf("inspectFile() error = %v", err)
	}
	if r.Container != "png" {
		t.Errorf("Container = %q, want png", r.Container)
	}
	if r.Width != 8 || r.Height != 4 || r.BufferSize != 128 {
		t.Errorf("size = %dx%d (%d bytes), want 8x4 (128 bytes)", r.Width, r.Height, r.BufferSize)
	}
	if r.DisplayWidth != 4 || r.DisplayHeight != 2 {
		t.Errorf("display size = %gx%g, want 4x2", r.DisplayWidth, r.DisplayHeight)
	}

	// 8x4, 4x2, 2x1, 1x1
	wantMips := []mipInfo{
		{Level: 0, Width: 8, Height: 4, Bytes: 128},
		{Level: 1, Width: 4, Height: 2, Bytes: 32},
		{Level: 2, Width: 2, Height: 1, Bytes: 8},
		{Level: 3, Width: 1, Height: 1, Bytes: 4},
	}
	if len(r.Mips) != len(wantMips) {
		t.Fatalf("len(Mips) = %d, want %d", len(r.Mips), len(wantMips))
	}
	for i, m := range r.Mips {
		if m != wantMips[i] {
			t.Errorf("Mips[%d] = %+v, want %+v", i, m, wantMips[i])
		}
	}
	if r.TotalBytes != 172 {
		t.Errorf("TotalBytes = %d, want 172", r.TotalBytes)
	}
}

func TestInspectFileFormats(t *testing.T) {
	path := writePNG(t, 3, 3)
	tests := []struct {
		format gtex.PixelFormat
		bpp    int
	}{
		{gtex.PixelFormatRGB, 3},
		{gtex.PixelFormatAlpha, 1},
		{gtex.PixelFormatLuminanceAlpha, 2},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			opts := gtex.DefaultOptions()
			opts.PixelFormat = tt.format
			r, err := inspectFile(path, opts, "")
			if err != nil {
				t.Fatalf("inspectFile() error = %v", err)
			}
			if r.BytesPerPixel != tt.bpp || r.BufferSize != 9*tt.bpp {
				t.Errorf("bpp = %d, buffer = %d, want %d and %d", r.BytesPerPixel, r.BufferSize, tt.bpp, 9*tt.bpp)
			}
			if len(r.Mips) != 1 {
				t.Errorf("len(Mips) = %d, want 1 without mipmaps", len(r.Mips))
			}
		})
	}
}

func TestInspectFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := inspectFile(filepath.Join(dir, "missing.png"), gtex.DefaultOptions(), ""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("inspectFile(missing) error = %v, want os.ErrNotExist", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("definitely not a png"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := inspectFile(garbage, gtex.DefaultOptions(), ""); !errors.Is(err, gtex.ErrDecode) {
		t.Errorf("inspectFile(garbage) error = %v, want ErrDecode", err)
	}

	// A zip archive is recognized and rejected before decoding.
	zip := filepath.Join(dir, "archive.png")
	if err := os.WriteFile(zip, []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := inspectFile(zip, gtex.DefaultOptions(), ""); !errors.Is(err, decode.ErrUnsupportedFormat) {
		t.Errorf("inspectFile(zip) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestInspectReportOutput(t *testing.T) {
	r, err := inspectFile(writePNG(t, 2, 2), gtex.DefaultOptions(), "")
	if err != nil {
		t.Fatalf("inspectFile() error = %v", err)
	}

	var text bytes.Buffer
	r.print(&text)
	for _, want := range []string{"Size:           2x2", "rgba (4 bytes per pixel)", "Mip levels:     1"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("output missing %q:\n%s", want, text.String())
		}
	}

	var js bytes.Buffer
	if err := printJSON(&js, r); err != nil {
		t.Fatalf("printJSON() error = %v", err)
	}
	var back inspectReport
	if err := json.Unmarshal(js.Bytes(), &back); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if back.Width != 2 || back.PixelFormat != "rgba" || len(back.Mips) != 1 {
		t.Errorf("JSON report = %+v", back)
	}
}
