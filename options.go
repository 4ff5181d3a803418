// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gtex

import (
	"fmt"
	"math"
	"strings"
)

// MinFilter selects how texels are sampled when the texture is minified.
// The zero value is MinFilterLinear.
type MinFilter uint8

const (
	// MinFilterLinear interpolates between the four nearest texels.
	MinFilterLinear MinFilter = iota

	// MinFilterNearest picks the nearest texel.
	MinFilterNearest

	// MinFilterNearestMipmapNearest picks the nearest texel of the nearest mip level.
	MinFilterNearestMipmapNearest

	// MinFilterLinearMipmapNearest interpolates within the nearest mip level.
	MinFilterLinearMipmapNearest

	// MinFilterNearestMipmapLinear blends the nearest texels of two mip levels.
	MinFilterNearestMipmapLinear

	// MinFilterLinearMipmapLinear interpolates within and between mip levels.
	MinFilterLinearMipmapLinear

	minFilterCount
)

var minFilterNames = [minFilterCount]string{
	MinFilterLinear:               "linear",
	MinFilterNearest:              "nearest",
	MinFilterNearestMipmapNearest: "nearest_mipmap_nearest",
	MinFilterLinearMipmapNearest:  "linear_mipmap_nearest",
	MinFilterNearestMipmapLinear:  "nearest_mipmap_linear",
	MinFilterLinearMipmapLinear:   "linear_mipmap_linear",
}

// String returns the lower-case name of the filter.
func (f MinFilter) String() string {
	if f >= minFilterCount {
		return fmt.Sprintf("MinFilter(%d)", f)
	}
	return minFilterNames[f]
}

// IsValid reports whether f is a known filter.
func (f MinFilter) IsValid() bool { return f < minFilterCount }

// UsesMipmaps reports whether the filter samples from mip levels.
func (f MinFilter) UsesMipmaps() bool {
	return f >= MinFilterNearestMipmapNearest && f < minFilterCount
}

// MarshalText implements encoding.TextMarshaler.
func (f MinFilter) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: min filter %d", ErrInvalidOption, f)
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is case-insensitive.
func (f *MinFilter) UnmarshalText(text []byte) error {
	i, err := lookupName(minFilterNames[:], "min filter", text)
	if err != nil {
		return err
	}
	*f = MinFilter(i)
	return nil
}

// MagFilter selects how texels are sampled when the texture is magnified.
// The zero value is MagFilterLinear.
type MagFilter uint8

const (
	// MagFilterLinear interpolates between the four nearest texels.
	MagFilterLinear MagFilter = iota

	// MagFilterNearest picks the nearest texel.
	MagFilterNearest

	magFilterCount
)

var magFilterNames = [magFilterCount]string{
	MagFilterLinear:  "linear",
	MagFilterNearest: "nearest",
}

// String returns the lower-case name of the filter.
func (f MagFilter) String() string {
	if f >= magFilterCount {
		return fmt.Sprintf("MagFilter(%d)", f)
	}
	return magFilterNames[f]
}

// IsValid reports whether f is a known filter.
func (f MagFilter) IsValid() bool { return f < magFilterCount }

// MarshalText implements encoding.TextMarshaler.
func (f MagFilter) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: mag filter %d", ErrInvalidOption, f)
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is case-insensitive.
func (f *MagFilter) UnmarshalText(text []byte) error {
	i, err := lookupName(magFilterNames[:], "mag filter", text)
	if err != nil {
		return err
	}
	*f = MagFilter(i)
	return nil
}

// Wrap selects how texture coordinates outside [0, 1] are resolved.
// The zero value is WrapClampToEdge.
type Wrap uint8

const (
	// WrapClampToEdge clamps coordinates to the edge texel.
	WrapClampToEdge Wrap = iota

	// WrapRepeat repeats the texture.
	WrapRepeat

	wrapCount
)

var wrapNames = [wrapCount]string{
	WrapClampToEdge: "clamp_to_edge",
	WrapRepeat:      "repeat",
}

// String returns the lower-case name of the wrap mode.
func (w Wrap) String() string {
	if w >= wrapCount {
		return fmt.Sprintf("Wrap(%d)", w)
	}
	return wrapNames[w]
}

// IsValid reports whether w is a known wrap mode.
func (w Wrap) IsValid() bool { return w < wrapCount }

// MarshalText implements encoding.TextMarshaler.
func (w Wrap) MarshalText() ([]byte, error) {
	if !w.IsValid() {
		return nil, fmt.Errorf("%w: wrap %d", ErrInvalidOption, w)
	}
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is case-insensitive.
func (w *Wrap) UnmarshalText(text []byte) error {
	i, err := lookupName(wrapNames[:], "wrap", text)
	if err != nil {
		return err
	}
	*w = Wrap(i)
	return nil
}

// PixelFormat is the channel layout of the CPU buffer.
// The zero value is PixelFormatRGBA.
type PixelFormat uint8

const (
	// PixelFormatRGBA is four 8-bit channels.
	PixelFormatRGBA PixelFormat = iota

	// PixelFormatRGB is three 8-bit channels without alpha.
	PixelFormatRGB

	// PixelFormatAlpha is a single 8-bit alpha channel.
	PixelFormatAlpha

	// PixelFormatLuminance is a single 8-bit luminance channel.
	PixelFormatLuminance

	// PixelFormatLuminanceAlpha is 8-bit luminance followed by 8-bit alpha.
	PixelFormatLuminanceAlpha

	pixelFormatCount
)

var pixelFormatNames = [pixelFormatCount]string{
	PixelFormatRGBA:           "rgba",
	PixelFormatRGB:            "rgb",
	PixelFormatAlpha:          "alpha",
	PixelFormatLuminance:      "luminance",
	PixelFormatLuminanceAlpha: "luminance_alpha",
}

var pixelFormatSizes = [pixelFormatCount]int{
	PixelFormatRGBA:           4,
	PixelFormatRGB:            3,
	PixelFormatAlpha:          1,
	PixelFormatLuminance:      1,
	PixelFormatLuminanceAlpha: 2,
}

// String returns the lower-case name of the format.
func (f PixelFormat) String() string {
	if f >= pixelFormatCount {
		return fmt.Sprintf("PixelFormat(%d)", f)
	}
	return pixelFormatNames[f]
}

// IsValid reports whether f is a known format.
func (f PixelFormat) IsValid() bool { return f < pixelFormatCount }

// BytesPerPixel returns the size of one pixel in bytes, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	if f >= pixelFormatCount {
		return 0
	}
	return pixelFormatSizes[f]
}

// MarshalText implements encoding.TextMarshaler.
func (f PixelFormat) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: pixel format %d", ErrInvalidOption, f)
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is case-insensitive.
func (f *PixelFormat) UnmarshalText(text []byte) error {
	i, err := lookupName(pixelFormatNames[:], "pixel format", text)
	if err != nil {
		return err
	}
	*f = PixelFormat(i)
	return nil
}

func lookupName(names []string, kind string, text []byte) (int, error) {
	s := strings.TrimSpace(string(text))
	for i, name := range names {
		if strings.EqualFold(s, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalidOption, kind, s)
}

// Options is the immutable configuration of a Texture.
//
// The zero value is the default configuration except for DisplayScale,
// where 0 is read as 1.
type Options struct {
	MinFilter   MinFilter   `toml:"min_filter" json:"min_filter"`
	MagFilter   MagFilter   `toml:"mag_filter" json:"mag_filter"`
	WrapS       Wrap        `toml:"wrap_s" json:"wrap_s"`
	WrapT       Wrap        `toml:"wrap_t" json:"wrap_t"`
	PixelFormat PixelFormat `toml:"pixel_format" json:"pixel_format"`

	// DisplayScale relates image pixels to display units
	// (0.5 for a "@2x" image).
	DisplayScale float32 `toml:"display_scale" json:"display_scale"`

	GenerateMipmaps bool `toml:"generate_mipmaps" json:"generate_mipmaps"`
}

// DefaultOptions returns linear filtering, clamp-to-edge wrapping, RGBA
// pixels, a display scale of 1 and no mipmaps.
func DefaultOptions() Options {
	return Options{
		MinFilter:    MinFilterLinear,
		MagFilter:    MagFilterLinear,
		WrapS:        WrapClampToEdge,
		WrapT:        WrapClampToEdge,
		PixelFormat:  PixelFormatRGBA,
		DisplayScale: 1,
	}
}

// Validate checks that every field holds a known value.
func (o Options) Validate() error {
	switch {
	case !o.MinFilter.IsValid():
		return fmt.Errorf("%w: min filter %d", ErrInvalidOption, o.MinFilter)
	case !o.MagFilter.IsValid():
		return fmt.Errorf("%w: mag filter %d", ErrInvalidOption, o.MagFilter)
	case !o.WrapS.IsValid():
		return fmt.Errorf("%w: wrap s %d", ErrInvalidOption, o.WrapS)
	case !o.WrapT.IsValid():
		return fmt.Errorf("%w: wrap t %d", ErrInvalidOption, o.WrapT)
	case !o.PixelFormat.IsValid():
		return fmt.Errorf("%w: pixel format %d", ErrInvalidOption, o.PixelFormat)
	case o.DisplayScale < 0 || math.IsNaN(float64(o.DisplayScale)) || math.IsInf(float64(o.DisplayScale), 0):
		return fmt.Errorf("%w: display scale %v", ErrInvalidOption, o.DisplayScale)
	}
	return nil
}

// Sampler returns the sampling state derived from the options.
func (o Options) Sampler() SamplerDesc {
	return SamplerDesc{
		MinFilter: o.MinFilter,
		MagFilter: o.MagFilter,
		WrapS:     o.WrapS,
		WrapT:     o.WrapT,
	}
}

// normalized replaces invalid fields with their defaults.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if !o.MinFilter.IsValid() {
		o.MinFilter = d.MinFilter
	}
	if !o.MagFilter.IsValid() {
		o.MagFilter = d.MagFilter
	}
	if !o.WrapS.IsValid() {
		o.WrapS = d.WrapS
	}
	if !o.WrapT.IsValid() {
		o.WrapT = d.WrapT
	}
	if !o.PixelFormat.IsValid() {
		o.PixelFormat = d.PixelFormat
	}
	if o.DisplayScale <= 0 || math.IsNaN(float64(o.DisplayScale)) || math.IsInf(float64(o.DisplayScale), 0) {
		o.DisplayScale = 1
	}
	return o
}

// Option configures a Texture during creation.
//
// Example:
//
//	tex := gtex.New(gtex.DefaultOptions(),
//	    gtex.WithDisposeBuffer(false),
//	    gtex.WithLabel("glyphs"),
//	)
type Option func(*textureOptions)

// textureOptions holds optional configuration for Texture creation.
type textureOptions struct {
	decoder       Decoder
	disposeBuffer bool
	label         string
}

func defaultTextureOptions() textureOptions {
	return textureOptions{
		decoder:       defaultDecoder{},
		disposeBuffer: true,
	}
}

// WithDecoder sets the decoder used by LoadImageFromMemory.
// A nil decoder keeps the default.
func WithDecoder(d Decoder) Option {
	return func(o *textureOptions) {
		if d != nil {
			o.decoder = d
		}
	}
}

// WithDisposeBuffer controls whether the CPU buffer is released after a
// successful upload. The default is true. Keep the buffer when the texture
// is updated piecewise with WriteRows or SetRowsDirty.
func WithDisposeBuffer(dispose bool) Option {
	return func(o *textureOptions) {
		o.disposeBuffer = dispose
	}
}

// WithLabel sets a debug label passed to the render context.
func WithLabel(label string) Option {
	return func(o *textureOptions) {
		o.label = label
	}
}
