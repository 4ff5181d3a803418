// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu implements gtex.RenderContext on top of the gogpu/wgpu
// hardware abstraction layer.
//
// # Opening a device
//
// Open selects a HAL backend by name ("vulkan", "metal", "dx12", "gles",
// "software" or "noop"), or the best available one for an empty name:
//
//	dev, err := wgpu.Open("")
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
//	ctx := dev.NewContext()
//	defer ctx.Close()
//
//	if err := tex.Update(ctx, 0); err != nil {
//	    return err
//	}
//
// GPU backends register themselves when imported; import
// github.com/gogpu/wgpu/hal/allbackends in the main package to enable them.
// The software and noop backends are always available.
//
// # Formats
//
// WebGPU has no three-channel 8-bit format, so RGB textures are stored as
// RGBA8Unorm and expanded on upload with an opaque alpha. Alpha and
// Luminance use R8Unorm, LuminanceAlpha uses RG8Unorm.
//
// # Binding
//
// WebGPU binds textures through bind groups, not texture units. Context
// records which texture is bound to each unit and skips redundant binds;
// Bound returns the view and sampler to place in a bind group.
//
// A Context is confined to the goroutine that owns the device.
package wgpu
