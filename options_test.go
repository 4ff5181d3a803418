// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gtex

import (
	"errors"
	"math"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestMinFilterString(t *testing.T) {
	tests := []struct {
		f    MinFilter
		want string
	}{
		{MinFilterLinear, "linear"},
		{MinFilterNearest, "nearest"},
		{MinFilterNearestMipmapNearest, "nearest_mipmap_nearest"},
		{MinFilterLinearMipmapNearest, "linear_mipmap_nearest"},
		{MinFilterNearestMipmapLinear, "nearest_mipmap_linear"},
		{MinFilterLinearMipmapLinear, "linear_mipmap_linear"},
		{MinFilter(42), "MinFilter(42)"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("MinFilter(%d).String() = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestMinFilterUsesMipmaps(t *testing.T) {
	tests := []struct {
		f    MinFilter
		want bool
	}{
		{MinFilterLinear, false},
		{MinFilterNearest, false},
		{MinFilterNearestMipmapNearest, true},
		{MinFilterLinearMipmapLinear, true},
		{MinFilter(42), false},
	}
	for _, tt := range tests {
		if got := tt.f.UsesMipmaps(); got != tt.want {
			t.Errorf("%v.UsesMipmaps() = %v, want %v", tt.f, got, tt.want)
		}
	}
}

func TestEnumUnmarshalText(t *testing.T) {
	t.Run("min filter", func(t *testing.T) {
		var f MinFilter
		if err := f.UnmarshalText([]byte(" Linear_Mipmap_Linear ")); err != nil {
			t.Fatalf("UnmarshalText() error = %v", err)
		}
		if f != MinFilterLinearMipmapLinear {
			t.Errorf("UnmarshalText() = %v, want %v", f, MinFilterLinearMipmapLinear)
		}
	})

	t.Run("mag filter", func(t *testing.T) {
		var f MagFilter
		if err := f.UnmarshalText([]byte("NEAREST")); err != nil {
			t.Fatalf("UnmarshalText() error = %v", err)
		}
		if f != MagFilterNearest {
			t.Errorf("UnmarshalText() = %v, want %v", f, MagFilterNearest)
		}
	})

	t.Run("wrap", func(t *testing.T) {
		var w Wrap
		if err := w.UnmarshalText([]byte("repeat")); err != nil {
			t.Fatalf("UnmarshalText() error = %v", err)
		}
		if w != WrapRepeat {
			t.Errorf("UnmarshalText() = %v, want %v", w, WrapRepeat)
		}
	})

	t.Run("pixel format", func(t *testing.T) {
		var f PixelFormat
		if err := f.UnmarshalText([]byte("luminance_alpha")); err != nil {
			t.Fatalf("UnmarshalText() error = %v", err)
		}
		if f != PixelFormatLuminanceAlpha {
			t.Errorf("UnmarshalText() = %v, want %v", f, PixelFormatLuminanceAlpha)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		var w Wrap
		err := w.UnmarshalText([]byte("mirror"))
		if !errors.Is(err, ErrInvalidOption) {
			t.Errorf("UnmarshalText(mirror) error = %v, want ErrInvalidOption", err)
		}
	})
}

func TestEnumMarshalTextInvalid(t *testing.T) {
	if _, err := PixelFormat(99).MarshalText(); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("PixelFormat(99).MarshalText() error = %v, want ErrInvalidOption", err)
	}
	if _, err := MagFilter(7).MarshalText(); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("MagFilter(7).MarshalText() error = %v, want ErrInvalidOption", err)
	}
}

func TestPixelFormatBytesPerPixel(t *testing.T) {
	tests := []struct {
		f    PixelFormat
		want int
	}{
		{PixelFormatRGBA, 4},
		{PixelFormatRGB, 3},
		{PixelFormatAlpha, 1},
		{PixelFormatLuminance, 1},
		{PixelFormatLuminanceAlpha, 2},
		{PixelFormat(200), 0},
	}
	for _, tt := range tests {
		if got := tt.f.BytesPerPixel(); got != tt.want {
			t.Errorf("%v.BytesPerPixel() = %d, want %d", tt.f, got, tt.want)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if err := o.Validate(); err != nil {
		t.Fatalf("DefaultOptions().Validate() = %v", err)
	}
	if o.DisplayScale != 1 {
		t.Errorf("DisplayScale = %v, want 1", o.DisplayScale)
	}
	if o.GenerateMipmaps {
		t.Error("GenerateMipmaps = true, want false")
	}
	if o.PixelFormat != PixelFormatRGBA {
		t.Errorf("PixelFormat = %v, want rgba", o.PixelFormat)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"min filter", func(o *Options) { o.MinFilter = 99 }},
		{"mag filter", func(o *Options) { o.MagFilter = 99 }},
		{"wrap s", func(o *Options) { o.WrapS = 99 }},
		{"wrap t", func(o *Options) { o.WrapT = 99 }},
		{"pixel format", func(o *Options) { o.PixelFormat = 99 }},
		{"negative scale", func(o *Options) { o.DisplayScale = -1 }},
		{"nan scale", func(o *Options) { o.DisplayScale = float32(math.NaN()) }},
		{"inf scale", func(o *Options) { o.DisplayScale = float32(math.Inf(1)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.modify(&o)
			if err := o.Validate(); !errors.Is(err, ErrInvalidOption) {
				t.Errorf("Validate() = %v, want ErrInvalidOption", err)
			}
		})
	}
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{
		MinFilter:    MinFilterNearest,
		MagFilter:    99,
		WrapS:        WrapRepeat,
		WrapT:        99,
		PixelFormat:  99,
		DisplayScale: 0,
	}
	got := o.normalized()
	want := Options{
		MinFilter:    MinFilterNearest,
		MagFilter:    MagFilterLinear,
		WrapS:        WrapRepeat,
		WrapT:        WrapClampToEdge,
		PixelFormat:  PixelFormatRGBA,
		DisplayScale: 1,
	}
	if got != want {
		t.Errorf("normalized() = %+v, want %+v", got, want)
	}
}

func TestOptionsSampler(t *testing.T) {
	o := DefaultOptions()
	o.MinFilter = MinFilterLinearMipmapNearest
	o.MagFilter = MagFilterNearest
	o.WrapT = WrapRepeat

	want := SamplerDesc{
		MinFilter: MinFilterLinearMipmapNearest,
		MagFilter: MagFilterNearest,
		WrapS:     WrapClampToEdge,
		WrapT:     WrapRepeat,
	}
	if got := o.Sampler(); got != want {
		t.Errorf("Sampler() = %+v, want %+v", got, want)
	}
}

func TestOptionsTOML(t *testing.T) {
	const doc = `
min_filter = "linear_mipmap_linear"
mag_filter = "nearest"
wrap_s = "repeat"
pixel_format = "alpha"
display_scale = 0.5
generate_mipmaps = true
`
	o := DefaultOptions()
	if err := toml.Unmarshal([]byte(doc), &o); err != nil {
		t.Fatalf("toml.Unmarshal() error = %v", err)
	}
	want := Options{
		MinFilter:       MinFilterLinearMipmapLinear,
		MagFilter:       MagFilterNearest,
		WrapS:           WrapRepeat,
		WrapT:           WrapClampToEdge,
		PixelFormat:     PixelFormatAlpha,
		DisplayScale:    0.5,
		GenerateMipmaps: true,
	}
	if o != want {
		t.Errorf("decoded options = %+v, want %+v", o, want)
	}

	out, err := toml.Marshal(o)
	if err != nil {
		t.Fatalf("toml.Marshal() error = %v", err)
	}
	var back Options
	if err := toml.Unmarshal(out, &back); err != nil {
		t.Fatalf("toml.Unmarshal(Marshal()) error = %v", err)
	}
	if back != o {
		t.Errorf("TOML round trip = %+v, want %+v", back, o)
	}
}

func TestOptionsTOMLUnknownValue(t *testing.T) {
	var o Options
	err := toml.Unmarshal([]byte(`wrap_s = "mirror"`), &o)
	if err == nil {
		t.Fatal("toml.Unmarshal() error = nil, want error for unknown wrap")
	}
	if !errors.Is(err, ErrInvalidOption) {
		t.Logf("error does not wrap ErrInvalidOption: %v", err)
	}
}
