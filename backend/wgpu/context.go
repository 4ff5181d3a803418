// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gtex"
	"github.com/gogpu/gtex/internal/mipmap"
)

// Context errors.
var (
	// ErrUnknownHandle is returned for handles not issued by this context.
	ErrUnknownHandle = errors.New("wgpu: unknown texture handle")

	// ErrInvalidRegion is returned when an upload does not fit the texture.
	ErrInvalidRegion = errors.New("wgpu: upload region outside texture")

	// ErrContextClosed is returned when operating on a closed context.
	ErrContextClosed = errors.New("wgpu: render context is closed")

	// ErrInvalidSize is returned for zero or oversized texture dimensions.
	ErrInvalidSize = errors.New("wgpu: invalid texture size")
)

// texture is the GPU state behind one handle.
type texture struct {
	desc    gtex.TextureDesc
	tex     hal.Texture
	view    hal.TextureView
	sampler hal.Sampler
	format  gputypes.TextureFormat
	bpp     int // bytes per pixel in GPU storage
}

// Binding is what a draw needs to sample a bound texture.
type Binding struct {
	Handle  gtex.Handle
	View    hal.TextureView
	Sampler hal.Sampler
}

// Stats counts the work done by a Context.
type Stats struct {
	Textures      int // live textures
	Creates       int
	Resizes       int
	Uploads       int
	BytesUploaded int
	Binds         int // binds that changed a unit
	SkippedBinds  int // binds of the texture already on the unit
}

// Context is a gtex.RenderContext over a HAL device and queue.
type Context struct {
	device hal.Device
	queue  hal.Queue

	textures map[gtex.Handle]*texture
	next     gtex.Handle
	bound    map[uint32]gtex.Handle

	scratch []byte
	stats   Stats
	closed  bool
}

var _ gtex.RenderContext = (*Context)(nil)

// NewContext creates a render context that allocates textures on device and
// uploads through queue. The caller keeps ownership of both.
func NewContext(device hal.Device, queue hal.Queue) *Context {
	return &Context{
		device:   device,
		queue:    queue,
		textures: make(map[gtex.Handle]*texture),
		bound:    make(map[uint32]gtex.Handle),
	}
}

// CreateTexture creates a texture, its view and its sampler.
func (c *Context) CreateTexture(desc gtex.TextureDesc) (gtex.Handle, error) {
	if c.closed {
		return gtex.NoHandle, ErrContextClosed
	}

	t := &texture{}
	if err := c.allocate(t, desc); err != nil {
		return gtex.NoHandle, err
	}

	sampler, err := c.device.CreateSampler(samplerDescriptor(desc))
	if err != nil {
		c.destroyStorage(t)
		return gtex.NoHandle, fmt.Errorf("create sampler: %w", err)
	}
	t.sampler = sampler

	c.next++
	h := c.next
	c.textures[h] = t
	c.stats.Creates++

	gtex.Logger().Debug("wgpu: texture created",
		"handle", h,
		"label", desc.Label,
		"size", fmt.Sprintf("%dx%d", desc.Width, desc.Height),
		"format", t.format,
		"mips", desc.MipLevels)
	return h, nil
}

// ResizeTexture replaces the storage of h. The sampler is kept; sampling
// state is fixed at creation.
func (c *Context) ResizeTexture(h gtex.Handle, desc gtex.TextureDesc) error {
	if c.closed {
		return ErrContextClosed
	}
	t, ok := c.textures[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}

	c.destroyStorage(t)
	if err := c.allocate(t, desc); err != nil {
		return err
	}
	c.stats.Resizes++

	gtex.Logger().Debug("wgpu: texture resized",
		"handle", h,
		"size", fmt.Sprintf("%dx%d", desc.Width, desc.Height),
		"mips", desc.MipLevels)
	return nil
}

// allocate creates the texture and view of t for desc.
func (c *Context) allocate(t *texture, desc gtex.TextureDesc) error {
	limit := int(gputypes.DefaultLimits().MaxTextureDimension2D)
	if desc.Width <= 0 || desc.Height <= 0 || desc.Width > limit || desc.Height > limit {
		return fmt.Errorf("%w: %dx%d (max %d)", ErrInvalidSize, desc.Width, desc.Height, limit)
	}

	format, bpp := textureFormat(desc.Format)
	levels := max(desc.MipLevels, 1)

	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: uint32(levels),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}

	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label,
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: uint32(levels),
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return fmt.Errorf("create texture view: %w", err)
	}

	desc.MipLevels = levels
	t.desc = desc
	t.tex = tex
	t.view = view
	t.format = format
	t.bpp = bpp
	return nil
}

func samplerDescriptor(desc gtex.TextureDesc) *hal.SamplerDescriptor {
	minMode, mipMode, lodMax := minFilter(desc.Sampler.MinFilter)
	return &hal.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: addressMode(desc.Sampler.WrapS),
		AddressModeV: addressMode(desc.Sampler.WrapT),
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    magFilter(desc.Sampler.MagFilter),
		MinFilter:    minMode,
		MipmapFilter: mipMode,
		LodMinClamp:  0,
		LodMaxClamp:  lodMax,
		Anisotropy:   1,
	}
}

// UploadRows writes full-width rows to one mip level of h. RGB data is
// expanded to RGBA before the write.
func (c *Context) UploadRows(h gtex.Handle, r gtex.RowRegion, data []byte) error {
	if c.closed {
		return ErrContextClosed
	}
	t, ok := c.textures[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}

	if r.Level < 0 || r.Level >= t.desc.MipLevels {
		return fmt.Errorf("%w: mip level %d of %d", ErrInvalidRegion, r.Level, t.desc.MipLevels)
	}
	lw, lh := mipmap.LevelSize(t.desc.Width, t.desc.Height, r.Level)
	if r.Width != lw || r.Y < 0 || r.Rows <= 0 || r.Rows > lh-r.Y {
		return fmt.Errorf("%w: rows [%d,%d) width %d, level %d is %dx%d",
			ErrInvalidRegion, r.Y, r.Y+r.Rows, r.Width, r.Level, lw, lh)
	}
	if want := r.Width * r.Rows * t.desc.Format.BytesPerPixel(); len(data) != want {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidRegion, len(data), want)
	}

	if t.desc.Format == gtex.PixelFormatRGB {
		c.scratch = expandRGB(c.scratch, data)
		data = c.scratch
	}

	err := c.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: uint32(r.Level),
			Origin:   hal.Origin3D{Y: uint32(r.Y)},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			BytesPerRow:  uint32(r.Width * t.bpp),
			RowsPerImage: uint32(r.Rows),
		},
		&hal.Extent3D{
			Width:              uint32(r.Width),
			Height:             uint32(r.Rows),
			DepthOrArrayLayers: 1,
		},
	)
	if err != nil {
		return fmt.Errorf("write texture: %w", err)
	}

	c.stats.Uploads++
	c.stats.BytesUploaded += len(data)
	return nil
}

// BindTexture records h as the texture of unit. Binding the texture that is
// already on the unit is skipped. Unknown handles are ignored.
func (c *Context) BindTexture(h gtex.Handle, unit uint32) {
	if c.closed {
		return
	}
	if _, ok := c.textures[h]; !ok {
		return
	}
	if cur, ok := c.bound[unit]; ok && cur == h {
		c.stats.SkippedBinds++
		return
	}
	c.bound[unit] = h
	c.stats.Binds++
}

// Bound returns the texture bound to unit.
func (c *Context) Bound(unit uint32) (Binding, bool) {
	h, ok := c.bound[unit]
	if !ok {
		return Binding{}, false
	}
	t := c.textures[h]
	return Binding{Handle: h, View: t.view, Sampler: t.sampler}, true
}

// Texture returns the HAL texture behind h, or nil.
func (c *Context) Texture(h gtex.Handle) hal.Texture {
	if t, ok := c.textures[h]; ok {
		return t.tex
	}
	return nil
}

// ReleaseTexture destroys h and unbinds it from every unit.
func (c *Context) ReleaseTexture(h gtex.Handle) {
	t, ok := c.textures[h]
	if !ok {
		return
	}
	for unit, b := range c.bound {
		if b == h {
			delete(c.bound, unit)
		}
	}
	c.destroyStorage(t)
	if t.sampler != nil {
		c.device.DestroySampler(t.sampler)
	}
	delete(c.textures, h)

	gtex.Logger().Debug("wgpu: texture released", "handle", h, "label", t.desc.Label)
}

func (c *Context) destroyStorage(t *texture) {
	if t.view != nil {
		c.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		c.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// Stats returns the work counters.
func (c *Context) Stats() Stats {
	s := c.stats
	s.Textures = len(c.textures)
	return s
}

// Close releases every texture still alive. The device and queue are not
// destroyed.
func (c *Context) Close() {
	if c.closed {
		return
	}
	if n := len(c.textures); n > 0 {
		gtex.Logger().Warn("wgpu: closing context with live textures", "count", n)
	}
	for h := range c.textures {
		c.ReleaseTexture(h)
	}
	c.closed = true
}
