// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gtex manages 2D textures that live both in CPU memory and on the GPU.
//
// # Overview
//
// A Texture owns a CPU pixel buffer and, once updated, a GPU texture handle.
// The two are reconciled lazily: mutations only touch the buffer and record
// which rows changed, and Update performs the minimal GPU work needed.
//
// # Quick Start
//
//	tex := gtex.New(gtex.DefaultOptions(), gtex.WithDisposeBuffer(false))
//	defer tex.Close()
//
//	if err := tex.LoadImageFromMemory(pngBytes); err != nil {
//	    return err
//	}
//
//	// Allocates the GPU texture and uploads every row.
//	if err := tex.Update(ctx, 0); err != nil {
//	    return err
//	}
//
//	// Only row 10 is uploaded by the next Update.
//	_ = tex.WriteRows(10, row)
//	if err := tex.Update(ctx, 0); err != nil {
//	    return err
//	}
//
// # Lifecycle
//
// State reports where a texture is in its lifecycle:
//
//   - StateUnallocated: no GPU texture yet. Update allocates and uploads.
//   - StateClean: GPU and CPU agree. Update does nothing.
//   - StateDirty: rows were marked with SetRowsDirty or WriteRows. Update
//     uploads only those rows.
//   - StateNeedsResize: dimensions changed. Update reallocates storage.
//
// By default the CPU buffer is released after each successful upload to
// save memory. Use WithDisposeBuffer(false) for textures that are edited
// after their first upload.
//
// # Render Context
//
// All graphics-API work goes through the RenderContext interface. Package
// backend/wgpu implements it on top of gogpu/wgpu for Vulkan, Metal, DX12,
// GLES and a CPU software rasterizer.
//
// # Mipmaps
//
// With Options.GenerateMipmaps the mip chain is computed on the CPU with a
// box filter. Partial updates recompute and upload only the affected band
// of every level.
//
// # Errors
//
// Fallible operations return errors that wrap the package sentinels. Pixel
// validation errors match both ErrSanity and a specific cause:
//
//	if errors.Is(err, gtex.ErrSizeMismatch) { ... }
//
// # Logging
//
// gtex is silent by default. Use SetLogger to enable diagnostics.
//
// # Concurrency
//
// A Texture is not safe for concurrent use and must be updated on the
// goroutine that owns its RenderContext.
package gtex
