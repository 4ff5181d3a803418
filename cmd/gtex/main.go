// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command gtex inspects images as textures and drives them through a GPU
// backend.
//
// Usage:
//
//	gtex inspect image.png
//	gtex upload --backend vulkan --manifest sprite.toml image.png
//	gtex watch --backend software image.png
package main

import (
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func main() {
	execute()
}
