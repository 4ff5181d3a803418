// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gtex"
)

// maxLOD is the LOD clamp used by mipmapped samplers.
const maxLOD = 32

// textureFormat returns the storage format for f and its size in bytes.
func textureFormat(f gtex.PixelFormat) (gputypes.TextureFormat, int) {
	switch f {
	case gtex.PixelFormatAlpha, gtex.PixelFormatLuminance:
		return gputypes.TextureFormatR8Unorm, 1
	case gtex.PixelFormatLuminanceAlpha:
		return gputypes.TextureFormatRG8Unorm, 2
	default:
		return gputypes.TextureFormatRGBA8Unorm, 4
	}
}

func addressMode(w gtex.Wrap) gputypes.AddressMode {
	if w == gtex.WrapRepeat {
		return gputypes.AddressModeRepeat
	}
	return gputypes.AddressModeClampToEdge
}

func magFilter(f gtex.MagFilter) gputypes.FilterMode {
	if f == gtex.MagFilterNearest {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

// minFilter splits a GL-style minification filter into the WebGPU min and
// mipmap filters plus the maximum LOD. Filters without a mipmap component
// sample level 0 only.
func minFilter(f gtex.MinFilter) (minMode, mipMode gputypes.FilterMode, lodMax float32) {
	switch f {
	case gtex.MinFilterNearest:
		return gputypes.FilterModeNearest, gputypes.FilterModeNearest, 0
	case gtex.MinFilterNearestMipmapNearest:
		return gputypes.FilterModeNearest, gputypes.FilterModeNearest, maxLOD
	case gtex.MinFilterLinearMipmapNearest:
		return gputypes.FilterModeLinear, gputypes.FilterModeNearest, maxLOD
	case gtex.MinFilterNearestMipmapLinear:
		return gputypes.FilterModeNearest, gputypes.FilterModeLinear, maxLOD
	case gtex.MinFilterLinearMipmapLinear:
		return gputypes.FilterModeLinear, gputypes.FilterModeLinear, maxLOD
	default:
		return gputypes.FilterModeLinear, gputypes.FilterModeNearest, 0
	}
}

// expandRGB converts packed RGB rows to RGBA with opaque alpha into dst,
// growing it when needed.
func expandRGB(dst, src []byte) []byte {
	n := len(src) / 3
	if cap(dst) < n*4 {
		dst = make([]byte, n*4)
	}
	dst = dst[:n*4]
	for i, o := 0, 0; i+2 < len(src); i, o = i+3, o+4 {
		dst[o] = src[i]
		dst[o+1] = src[i+1]
		dst[o+2] = src[i+2]
		dst[o+3] = 0xff
	}
	return dst
}
