// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package mipmap builds mipmap chains from raw, tightly packed pixel rows.
//
// Each level is half the size of the previous one (rounded down, minimum 1)
// and is produced with a 2x2 box filter applied independently to every
// channel, so any bytes-per-pixel value works. Level 0 is the caller's
// buffer and is never copied.
//
// The GPU HAL has no mipmap generation entry point, so textures compute the
// chain here and upload each level as an ordinary write.
package mipmap

import (
	"math/bits"

	"github.com/gogpu/gtex/internal/dirty"
)

// LevelCount returns the number of levels in a full chain for a w x h image:
// 1 + floor(log2(max(w, h))). Returns 0 for empty images.
func LevelCount(w, h int) int {
	m := max(w, h)
	if m <= 0 {
		return 0
	}
	return bits.Len(uint(m))
}

// LevelSize returns the dimensions of the given level.
func LevelSize(w, h, level int) (int, int) {
	for range level {
		w = max(1, w/2)
		h = max(1, h/2)
	}
	return w, h
}

// Level is one image of a chain.
type Level struct {
	Pix    []byte
	Width  int
	Height int
}

// Stride returns the row length in bytes.
func (l Level) Stride(bpp int) int {
	return l.Width * bpp
}

// Rows returns the bytes of rows [start, end).
func (l Level) Rows(bpp, start, end int) []byte {
	stride := l.Stride(bpp)
	return l.Pix[start*stride : end*stride]
}

// Chain holds pre-computed downscaled versions of an image.
type Chain struct {
	levels []Level
	bpp    int
}

// Generate creates a full chain from pix. pix becomes level 0 without a copy.
// Returns nil if the image is empty or pix is too short.
func Generate(pix []byte, w, h, bpp int) *Chain {
	if w <= 0 || h <= 0 || bpp <= 0 || len(pix) < w*h*bpp {
		return nil
	}

	n := LevelCount(w, h)
	c := &Chain{
		levels: make([]Level, n),
		bpp:    bpp,
	}
	c.levels[0] = Level{Pix: pix, Width: w, Height: h}

	for i := 1; i < n; i++ {
		c.levels[i] = Downsample(c.levels[i-1], bpp)
	}
	return c
}

// NumLevels returns the number of levels. Returns 0 for a nil chain.
func (c *Chain) NumLevels() int {
	if c == nil {
		return 0
	}
	return len(c.levels)
}

// Level returns level n, or an empty Level if n is out of range.
func (c *Chain) Level(n int) Level {
	if c == nil || n < 0 || n >= len(c.levels) {
		return Level{}
	}
	return c.levels[n]
}

// BytesPerPixel returns the pixel size the chain was built with.
func (c *Chain) BytesPerPixel() int {
	return c.bpp
}

// Refresh recomputes the parts of levels 1..n-1 affected by a change to rows
// of level 0 and returns the changed band of every level (index 0 is r
// itself). Bands may be empty when a change does not reach a level.
func (c *Chain) Refresh(r dirty.Range) []dirty.Range {
	if c == nil || len(c.levels) == 0 {
		return nil
	}

	bands := make([]dirty.Range, len(c.levels))
	r.Start = max(r.Start, 0)
	r.End = min(r.End, c.levels[0].Height)
	bands[0] = r

	for i := 1; i < len(c.levels); i++ {
		prev := bands[i-1]
		dst := c.levels[i]
		if prev.IsEmpty() {
			bands[i] = dirty.Range{}
			continue
		}
		band := BandFor(prev, dst.Height)
		DownsampleRows(c.levels[i-1], dst, c.bpp, band)
		bands[i] = band
	}
	return bands
}

// BandFor maps changed rows of a parent level to the rows of the child level
// (with height dstHeight) that sample them.
func BandFor(r dirty.Range, dstHeight int) dirty.Range {
	if r.IsEmpty() {
		return dirty.Range{}
	}
	band := dirty.Range{Start: r.Start / 2, End: (r.End + 1) / 2}
	band.End = min(band.End, dstHeight)
	if band.Start >= band.End {
		return dirty.Range{}
	}
	return band
}

// Downsample creates a half-size version of src using a box filter.
func Downsample(src Level, bpp int) Level {
	dst := Level{
		Width:  max(1, src.Width/2),
		Height: max(1, src.Height/2),
	}
	dst.Pix = make([]byte, dst.Width*dst.Height*bpp)
	DownsampleRows(src, dst, bpp, dirty.Range{Start: 0, End: dst.Height})
	return dst
}

// DownsampleRows recomputes rows [r.Start, r.End) of dst from src.
// dst must be the level directly below src.
func DownsampleRows(src, dst Level, bpp int, r dirty.Range) {
	srcStride := src.Stride(bpp)
	dstStride := dst.Stride(bpp)

	for dy := max(r.Start, 0); dy < min(r.End, dst.Height); dy++ {
		sy0 := min(dy*2, src.Height-1)
		sy1 := min(dy*2+1, src.Height-1)
		row0 := src.Pix[sy0*srcStride : sy0*srcStride+srcStride]
		row1 := src.Pix[sy1*srcStride : sy1*srcStride+srcStride]
		out := dst.Pix[dy*dstStride : dy*dstStride+dstStride]

		for dx := range dst.Width {
			sx0 := min(dx*2, src.Width-1) * bpp
			sx1 := min(dx*2+1, src.Width-1) * bpp
			o := dx * bpp

			// Average the 4 samples of each channel.
			for ch := range bpp {
				sum := uint16(row0[sx0+ch]) + uint16(row0[sx1+ch]) +
					uint16(row1[sx0+ch]) + uint16(row1[sx1+ch])
				out[o+ch] = byte(sum / 4)
			}
		}
	}
}
