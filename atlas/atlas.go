// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package atlas

import (
	"errors"
	"fmt"
	"slices"

	"github.com/chewxy/math32"
	"golang.org/x/text/unicode/norm"
)

// Atlas errors.
var (
	// ErrFull is returned when the atlas cannot fit the requested sprite.
	ErrFull = errors.New("atlas: no space left")

	// ErrClosed is returned when operating on a closed atlas.
	ErrClosed = errors.New("atlas: closed")

	// ErrOutOfBounds is returned when a sprite region is outside the atlas.
	ErrOutOfBounds = errors.New("atlas: region is outside atlas bounds")

	// ErrEmptyName is returned for sprites without a name.
	ErrEmptyName = errors.New("atlas: empty sprite name")
)

// UV holds normalized texture coordinates of a sprite. (U0, V0) is the
// top-left corner and (U1, V1) the bottom-right one.
type UV struct {
	U0, V0 float32
	U1, V1 float32
}

// Sprite is a named region of the atlas image.
type Sprite struct {
	Name   string
	Region Region
	UV     UV
}

// Size returns the sprite size in pixels.
func (s Sprite) Size() (width, height int) {
	return s.Region.Width, s.Region.Height
}

// Lookup is read-only access to an atlas.
type Lookup interface {
	Sprite(name string) (Sprite, bool)
	Names() []string
	Len() int
	Width() int
	Height() int
}

// Atlas maps sprite names to regions of a single texture image.
//
// Names are normalized to Unicode NFC, so "é" written precomposed or as
// "e" plus a combining accent refer to the same sprite.
type Atlas struct {
	width   int
	height  int
	packer  *Packer
	sprites map[string]Sprite
	closed  bool
}

var _ Lookup = (*Atlas)(nil)

// New creates an empty atlas for a width x height image.
func New(width, height int) *Atlas {
	return NewWithPadding(width, height, DefaultPadding)
}

// NewWithPadding creates an empty atlas whose packer leaves padding pixels
// between sprites.
func NewWithPadding(width, height, padding int) *Atlas {
	width = max(width, 0)
	height = max(height, 0)
	return &Atlas{
		width:   width,
		height:  height,
		packer:  NewPacker(width, height, padding),
		sprites: make(map[string]Sprite),
	}
}

// Add registers a sprite at an explicit region. An existing sprite with the
// same name is replaced.
func (a *Atlas) Add(name string, r Region) (Sprite, error) {
	if a.closed {
		return Sprite{}, ErrClosed
	}
	name = norm.NFC.String(name)
	if name == "" {
		return Sprite{}, ErrEmptyName
	}
	if !r.IsValid() || !r.In(a.width, a.height) {
		return Sprite{}, fmt.Errorf("%w: %s in %dx%d", ErrOutOfBounds, r, a.width, a.height)
	}

	s := Sprite{Name: name, Region: r, UV: a.uv(r)}
	a.sprites[name] = s
	return s, nil
}

// Pack finds a free region for a width x height sprite and registers it.
func (a *Atlas) Pack(name string, width, height int) (Sprite, error) {
	if a.closed {
		return Sprite{}, ErrClosed
	}
	if norm.NFC.String(name) == "" {
		return Sprite{}, ErrEmptyName
	}
	r := a.packer.Allocate(width, height)
	if !r.IsValid() {
		return Sprite{}, fmt.Errorf("%w: %dx%d sprite %q", ErrFull, width, height, name)
	}
	return a.Add(name, r)
}

// uv normalizes r against the atlas size.
func (a *Atlas) uv(r Region) UV {
	w, h := float32(a.width), float32(a.height)
	return UV{
		U0: clamp01(float32(r.X) / w),
		V0: clamp01(float32(r.Y) / h),
		U1: clamp01(float32(r.X+r.Width) / w),
		V1: clamp01(float32(r.Y+r.Height) / h),
	}
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(v, 1))
}

// Sprite returns the sprite registered under name.
func (a *Atlas) Sprite(name string) (Sprite, bool) {
	if a.closed {
		return Sprite{}, false
	}
	s, ok := a.sprites[norm.NFC.String(name)]
	return s, ok
}

// Names returns the sprite names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.sprites))
	for name := range a.sprites {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of sprites.
func (a *Atlas) Len() int { return len(a.sprites) }

// Width returns the atlas image width in pixels.
func (a *Atlas) Width() int { return a.width }

// Height returns the atlas image height in pixels.
func (a *Atlas) Height() int { return a.height }

// Utilization returns the fraction of area used by packed sprites.
func (a *Atlas) Utilization() float64 {
	if a.packer == nil {
		return 0
	}
	return a.packer.Utilization()
}

// Close drops every sprite. The atlas should not be used after Close.
func (a *Atlas) Close() {
	if a.closed {
		return
	}
	clear(a.sprites)
	a.packer = nil
	a.closed = true
}

// IsClosed returns true if the atlas has been closed.
func (a *Atlas) IsClosed() bool {
	return a.closed
}
