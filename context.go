// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gtex

import "fmt"

// Handle identifies a GPU texture owned by a RenderContext.
// NoHandle is never issued for an allocated texture.
type Handle uint64

// NoHandle is the unallocated handle.
const NoHandle Handle = 0

// IsZero reports whether h is NoHandle.
func (h Handle) IsZero() bool { return h == NoHandle }

// SamplerDesc is the static sampling state applied once when a GPU texture
// is created.
type SamplerDesc struct {
	MinFilter MinFilter
	MagFilter MagFilter
	WrapS     Wrap
	WrapT     Wrap
}

// TextureDesc describes GPU storage for a texture.
type TextureDesc struct {
	Label     string
	Width     int
	Height    int
	MipLevels int
	Format    PixelFormat
	Sampler   SamplerDesc
}

// String returns a string representation of the descriptor.
func (d TextureDesc) String() string {
	return fmt.Sprintf("TextureDesc[%q %dx%d %s mips=%d]", d.Label, d.Width, d.Height, d.Format, d.MipLevels)
}

// RowRegion addresses full-width rows [Y, Y+Rows) of one mip level.
type RowRegion struct {
	Level int
	Y     int
	Width int
	Rows  int
}

// RenderContext performs the graphics-API calls for textures and tracks
// which texture is bound to each unit.
//
// Implementations are confined to the goroutine that owns the graphics
// context. See package backend/hal for an implementation over gogpu/wgpu.
type RenderContext interface {
	// CreateTexture allocates a GPU texture with storage for desc and applies
	// the sampler state. The texture contents are undefined until uploaded.
	CreateTexture(desc TextureDesc) (Handle, error)

	// ResizeTexture reallocates the storage of h for desc. Previous contents
	// are discarded.
	ResizeTexture(h Handle, desc TextureDesc) error

	// UploadRows writes tightly packed rows in the texture's pixel format.
	// data holds exactly r.Width*r.Rows*bytesPerPixel bytes.
	UploadRows(h Handle, r RowRegion, data []byte) error

	// BindTexture makes h the texture used by unit for subsequent draws.
	BindTexture(h Handle, unit uint32)

	// ReleaseTexture destroys h. Unknown handles are ignored.
	ReleaseTexture(h Handle)
}
