// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// encodePNG encodes an opaque w x h image whose red channel is the row index
// plus shift.
func encodePNG(t *testing.T, w, h int, shift uint8) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(y) + shift, G: uint8(x), B: 7, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.png")
	if err := os.WriteFile(path, encodePNG(t, w, h, 0), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// setFlags overrides the global flags for one test.
func setFlags(t *testing.T, backend, pixelFormat string, verifyUpload bool) {
	t.Helper()
	oldBackend, oldFormat, oldVerify, oldManifest := backendName, format, verify, manifest
	t.Cleanup(func() {
		backendName, format, verify, manifest = oldBackend, oldFormat, oldVerify, oldManifest
	})
	backendName, format, verify, manifest = backend, pixelFormat, verifyUpload, ""
}
