// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gtex

import (
	"fmt"
	"math"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/gtex/atlas"
	"github.com/gogpu/gtex/internal/dirty"
	"github.com/gogpu/gtex/internal/mipmap"
)

// RowRange is a half-open range of image rows [Start, End).
type RowRange = dirty.Range

// Texture is a 2D image held both as a CPU pixel buffer and as a GPU texture.
//
// Mutations (SetPixelData, WriteRows, SetRowsDirty, Resize) only touch the
// CPU side. Update reconciles the GPU texture: it allocates lazily, uploads
// only dirty rows and reallocates after a resize.
//
// A Texture owns at most one GPU handle and must not be copied; always use
// it through the *Texture returned by New or NewFromMemory. Call Close to
// release the handle. A Texture is not safe for concurrent use.
type Texture struct {
	noCopy noCopy

	options       Options
	label         string
	decoder       Decoder
	disposeBuffer bool

	width  int
	height int
	buffer []byte
	dirty  dirty.Tracker
	mips   *mipmap.Chain

	handle       Handle
	ctx          RenderContext
	shouldResize bool

	atlas  *atlas.Atlas
	closed bool
}

var (
	_ gpucontext.Texture              = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
)

// New creates an empty 0x0 texture. Invalid option values are replaced by
// their defaults.
func New(opts Options, options ...Option) *Texture {
	cfg := defaultTextureOptions()
	for _, o := range options {
		o(&cfg)
	}

	if err := opts.Validate(); err != nil {
		Logger().Warn("gtex: invalid texture options, using defaults", "label", cfg.label, "error", err)
	}

	return &Texture{
		options:       opts.normalized(),
		label:         cfg.label,
		decoder:       cfg.decoder,
		disposeBuffer: cfg.disposeBuffer,
	}
}

// NewFromMemory creates a texture and decodes data into it.
//
// The texture is always returned. On failure it is empty and the error
// reports why decoding or validation failed.
func NewFromMemory(data []byte, opts Options, options ...Option) (*Texture, error) {
	t := New(opts, options...)
	if err := t.LoadImageFromMemory(data); err != nil {
		return t, err
	}
	return t, nil
}

// LoadImageFromMemory decodes an encoded image into a fresh buffer in the
// texture's pixel format and schedules a full reallocation.
// On failure the texture is unchanged.
func (t *Texture) LoadImageFromMemory(data []byte) error {
	if t.closed {
		return ErrClosed
	}

	img, err := t.decoder.Decode(data, t.options.PixelFormat)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := t.SanityCheck(img.Width, img.Height, img.BytesPerPixel, len(img.Pix)); err != nil {
		return err
	}

	t.adopt(img.Width, img.Height, img.Pix)
	t.shouldResize = true

	Logger().Debug("gtex: image loaded",
		"label", t.label,
		"width", img.Width,
		"height", img.Height,
		"format", t.options.PixelFormat)
	return nil
}

// MovePixelData adopts data as the pixel buffer without copying.
// The caller must not use data after a successful call. On failure data is
// not retained and the texture is unchanged.
func (t *Texture) MovePixelData(width, height, bytesPerPixel int, data []byte) error {
	if t.closed {
		return ErrClosed
	}
	if err := t.SanityCheck(width, height, bytesPerPixel, len(data)); err != nil {
		return err
	}
	t.adopt(width, height, data)
	return nil
}

// SetPixelData copies data into the pixel buffer, reusing the existing
// allocation when it is large enough. On failure the texture is unchanged.
func (t *Texture) SetPixelData(width, height, bytesPerPixel int, data []byte) error {
	if t.closed {
		return ErrClosed
	}
	if err := t.SanityCheck(width, height, bytesPerPixel, len(data)); err != nil {
		return err
	}

	buf := t.buffer
	if cap(buf) >= len(data) {
		buf = buf[:len(data)]
	} else {
		buf = make([]byte, len(data))
	}
	copy(buf, data)

	t.adopt(width, height, buf)
	return nil
}

// adopt installs a validated buffer and marks every row dirty.
func (t *Texture) adopt(width, height int, buf []byte) {
	if width != t.width || height != t.height {
		t.shouldResize = true
	}
	t.width = width
	t.height = height
	t.buffer = buf
	t.mips = nil
	t.dirty.Clear()
	t.dirty.Full(height)
}

// Pixels returns the pixel buffer for in-place edits, or nil if it has been
// released. Call SetRowsDirty for every modified row.
func (t *Texture) Pixels() []byte {
	return t.buffer
}

// WriteRows copies whole rows into the buffer starting at row y and marks
// them dirty. len(data) must be a multiple of Width()*BytesPerPixel().
func (t *Texture) WriteRows(y int, data []byte) error {
	if t.closed {
		return ErrClosed
	}
	if t.buffer == nil {
		return ErrNoBuffer
	}

	stride := t.width * t.BytesPerPixel()
	if stride == 0 {
		return fmt.Errorf("%w: empty image", ErrRowsOutOfBounds)
	}
	if len(data)%stride != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of row size %d", ErrSizeMismatch, len(data), stride)
	}

	rows := len(data) / stride
	if y < 0 || rows > t.height-y {
		return fmt.Errorf("%w: rows [%d,%d) of %d", ErrRowsOutOfBounds, y, y+rows, t.height)
	}
	if rows == 0 {
		return nil
	}

	copy(t.buffer[y*stride:], data)
	t.dirty.AddRows(y, rows)
	return nil
}

// UpdateData replaces every pixel without changing the dimensions. The GPU
// copy happens on the next Update.
func (t *Texture) UpdateData(data []byte) error {
	return t.SetPixelData(t.width, t.height, t.BytesPerPixel(), data)
}

// UpdateRegion copies a tightly packed w x h block into the buffer at (x, y)
// and marks its rows dirty. Uploads are row granular, so the next Update
// sends the full width of rows [y, y+h).
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	if t.closed {
		return ErrClosed
	}
	if t.buffer == nil {
		return ErrNoBuffer
	}
	if x < 0 || y < 0 || w < 0 || h < 0 || w > t.width-x || h > t.height-y {
		return fmt.Errorf("%w: region %dx%d at (%d,%d) of %dx%d", ErrRowsOutOfBounds, w, h, x, y, t.width, t.height)
	}

	bpp := t.BytesPerPixel()
	rowBytes := w * bpp
	if len(data) != rowBytes*h {
		return fmt.Errorf("%w: %d bytes for %dx%d region, want %d", ErrSizeMismatch, len(data), w, h, rowBytes*h)
	}
	if rowBytes == 0 || h == 0 {
		return nil
	}

	stride := t.width * bpp
	for row := range h {
		dst := (y+row)*stride + x*bpp
		copy(t.buffer[dst:dst+rowBytes], data[row*rowBytes:])
	}
	t.dirty.AddRows(y, h)
	return nil
}

// SetRowsDirty marks rows [start, start+count) for re-upload. The range is
// clamped to the image; empty ranges are ignored.
func (t *Texture) SetRowsDirty(start, count int) {
	if t.closed || count <= 0 {
		return
	}

	end := math.MaxInt
	if start <= math.MaxInt-count {
		end = start + count
	}

	r := dirty.Range{Start: max(start, 0), End: min(end, t.height)}
	if r.IsEmpty() {
		return
	}
	t.dirty.Add(r)
}

// Resize changes the texture dimensions and schedules a reallocation.
// Negative values are treated as 0. A buffer that no longer matches the new
// size is released.
func (t *Texture) Resize(width, height int) {
	if t.closed {
		return
	}
	width = max(width, 0)
	height = max(height, 0)

	t.width = width
	t.height = height
	t.shouldResize = true
	t.mips = nil

	if t.buffer != nil {
		size, ok := mulSize(width, height, t.BytesPerPixel())
		if !ok || size != len(t.buffer) {
			t.buffer = nil
			t.dirty.Clear()
		}
	}
	t.dirty.Clamp(height)
}

// SetSpriteAtlas transfers ownership of a to the texture. The previous atlas
// is closed. Passing nil removes the atlas.
func (t *Texture) SetSpriteAtlas(a *atlas.Atlas) {
	if t.atlas != nil && t.atlas != a {
		t.atlas.Close()
	}
	if t.closed && a != nil {
		a.Close()
		a = nil
	}
	t.atlas = a
}

// SpriteAtlas returns read access to the owned atlas, or nil.
func (t *Texture) SpriteAtlas() atlas.Lookup {
	if t.atlas == nil {
		return nil
	}
	return t.atlas
}

// Update reconciles the GPU texture with the CPU buffer and binds it to slot.
//
// Depending on State:
//   - Unallocated: creates the GPU texture and uploads the whole image.
//   - NeedsResize: reallocates storage and uploads the whole image.
//   - Dirty: uploads only the dirty rows (and the affected mip bands).
//   - Clean: does nothing.
//
// When the texture was created with WithDisposeBuffer(true) the CPU buffer
// is released after a successful upload.
func (t *Texture) Update(ctx RenderContext, slot uint32) error {
	if t.closed {
		return ErrClosed
	}
	if ctx == nil {
		return ErrNilContext
	}
	if !t.handle.IsZero() && t.ctx != ctx {
		return ErrContextMismatch
	}

	switch t.State() {
	case StateUnallocated:
		return t.allocate(ctx, slot)
	case StateNeedsResize:
		return t.reallocate(ctx, slot)
	case StateDirty:
		return t.uploadDirty(ctx, slot)
	}
	return nil
}

func (t *Texture) allocate(ctx RenderContext, slot uint32) error {
	if t.width == 0 || t.height == 0 {
		t.shouldResize = false
		t.dirty.Clear()
		return nil
	}

	desc := t.desc()
	h, err := ctx.CreateTexture(desc)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAllocation, desc, err)
	}

	t.handle = h
	t.ctx = ctx
	t.shouldResize = false
	Logger().Debug("gtex: texture allocated", "label", t.label, "handle", h, "desc", desc)

	ctx.BindTexture(h, slot)
	return t.uploadFull(ctx)
}

func (t *Texture) reallocate(ctx RenderContext, slot uint32) error {
	if t.width == 0 || t.height == 0 {
		t.release()
		t.shouldResize = false
		t.dirty.Clear()
		return nil
	}

	desc := t.desc()
	if err := ctx.ResizeTexture(t.handle, desc); err != nil {
		t.release()
		return fmt.Errorf("%w: %s: %w", ErrAllocation, desc, err)
	}

	t.shouldResize = false
	Logger().Debug("gtex: texture resized", "label", t.label, "handle", t.handle, "desc", desc)

	ctx.BindTexture(t.handle, slot)
	return t.uploadFull(ctx)
}

// uploadFull writes level 0 and every mip level. Without a buffer the
// storage stays allocated but undefined.
func (t *Texture) uploadFull(ctx RenderContext) error {
	if t.buffer == nil {
		t.dirty.Clear()
		return nil
	}

	region := RowRegion{Width: t.width, Rows: t.height}
	if err := ctx.UploadRows(t.handle, region, t.buffer); err != nil {
		t.dirty.Full(t.height)
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}

	if t.options.GenerateMipmaps {
		t.mips = mipmap.Generate(t.buffer, t.width, t.height, t.BytesPerPixel())
		for i := 1; i < t.mips.NumLevels(); i++ {
			lvl := t.mips.Level(i)
			region := RowRegion{Level: i, Width: lvl.Width, Rows: lvl.Height}
			if err := ctx.UploadRows(t.handle, region, lvl.Pix); err != nil {
				t.dirty.Full(t.height)
				return fmt.Errorf("%w: mip level %d: %w", ErrUpload, i, err)
			}
		}
	}

	Logger().Debug("gtex: full upload",
		"label", t.label,
		"handle", t.handle,
		"bytes", len(t.buffer),
		"levels", max(t.mips.NumLevels(), 1))

	t.dirty.Clear()
	t.disposeIfNeeded()
	return nil
}

func (t *Texture) uploadDirty(ctx RenderContext, slot uint32) error {
	if t.buffer == nil {
		Logger().Warn("gtex: dropping dirty rows, buffer released",
			"label", t.label,
			"rows", t.dirty.Rows())
		t.dirty.Clear()
		return nil
	}

	ctx.BindTexture(t.handle, slot)

	bpp := t.BytesPerPixel()
	stride := t.width * bpp
	rebuild := t.options.GenerateMipmaps && t.mips == nil

	for _, r := range t.dirty.Ranges() {
		region := RowRegion{Y: r.Start, Width: t.width, Rows: r.Rows()}
		if err := ctx.UploadRows(t.handle, region, t.buffer[r.Start*stride:r.End*stride]); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrUpload, r, err)
		}
		Logger().Debug("gtex: partial upload", "label", t.label, "handle", t.handle, "rows", r)

		if t.mips == nil {
			continue
		}
		bands := t.mips.Refresh(r)
		for i := 1; i < len(bands); i++ {
			band := bands[i]
			if band.IsEmpty() {
				continue
			}
			lvl := t.mips.Level(i)
			region := RowRegion{Level: i, Y: band.Start, Width: lvl.Width, Rows: band.Rows()}
			if err := ctx.UploadRows(t.handle, region, lvl.Rows(bpp, band.Start, band.End)); err != nil {
				return fmt.Errorf("%w: mip level %d %s: %w", ErrUpload, i, band, err)
			}
		}
	}

	if rebuild {
		t.mips = mipmap.Generate(t.buffer, t.width, t.height, bpp)
		for i := 1; i < t.mips.NumLevels(); i++ {
			lvl := t.mips.Level(i)
			region := RowRegion{Level: i, Width: lvl.Width, Rows: lvl.Height}
			if err := ctx.UploadRows(t.handle, region, lvl.Pix); err != nil {
				t.mips = nil
				return fmt.Errorf("%w: mip level %d: %w", ErrUpload, i, err)
			}
		}
	}

	t.dirty.Clear()
	t.disposeIfNeeded()
	return nil
}

func (t *Texture) disposeIfNeeded() {
	if !t.disposeBuffer {
		return
	}
	t.buffer = nil
	t.mips = nil
}

// release destroys the GPU texture and returns to StateUnallocated.
func (t *Texture) release() {
	if !t.handle.IsZero() && t.ctx != nil {
		t.ctx.ReleaseTexture(t.handle)
		Logger().Debug("gtex: texture released", "label", t.label, "handle", t.handle)
	}
	t.handle = NoHandle
	t.ctx = nil
	t.mips = nil
}

func (t *Texture) desc() TextureDesc {
	levels := 1
	if t.options.GenerateMipmaps {
		levels = mipmap.LevelCount(t.width, t.height)
	}
	return TextureDesc{
		Label:     t.label,
		Width:     t.width,
		Height:    t.height,
		MipLevels: levels,
		Format:    t.options.PixelFormat,
		Sampler:   t.options.Sampler(),
	}
}

// Bind binds the GPU texture to unit without reconciling state.
// It does nothing before the first successful Update.
func (t *Texture) Bind(ctx RenderContext, unit uint32) {
	if t.handle.IsZero() || ctx == nil {
		return
	}
	if ctx != t.ctx {
		Logger().Warn("gtex: bind through foreign render context ignored", "label", t.label, "handle", t.handle)
		return
	}
	ctx.BindTexture(t.handle, unit)
}

// Close releases the GPU texture, the CPU buffer and the owned atlas.
// It is safe to call more than once and on textures never uploaded.
func (t *Texture) Close() {
	if t.closed {
		return
	}
	t.release()
	t.buffer = nil
	t.dirty.Clear()
	t.shouldResize = false
	if t.atlas != nil {
		t.atlas.Close()
		t.atlas = nil
	}
	t.closed = true
}

// IsValid reports whether a GPU texture has been allocated.
func (t *Texture) IsValid() bool {
	return !t.handle.IsZero()
}

// BufferSize returns the size of the CPU buffer in bytes, 0 once released.
func (t *Texture) BufferSize() int {
	return len(t.buffer)
}

// BytesPerPixel returns the pixel size of the configured format.
func (t *Texture) BytesPerPixel() int {
	return t.options.PixelFormat.BytesPerPixel()
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Handle returns the GPU handle, or NoHandle.
func (t *Texture) Handle() Handle { return t.handle }

// DisplayScale returns the ratio of display units to image pixels.
func (t *Texture) DisplayScale() float32 { return t.options.DisplayScale }

// Options returns the texture options.
func (t *Texture) Options() Options { return t.options }

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// ShouldResize reports whether the next Update reallocates GPU storage.
func (t *Texture) ShouldResize() bool { return t.shouldResize }

// DirtyRanges returns a copy of the rows awaiting upload.
func (t *Texture) DirtyRanges() []RowRange { return t.dirty.Ranges() }

// String returns a string representation of the texture.
func (t *Texture) String() string {
	return fmt.Sprintf("Texture[%q %dx%d %s %s]", t.label, t.width, t.height, t.options.PixelFormat, t.State())
}

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
