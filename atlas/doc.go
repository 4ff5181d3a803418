// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package atlas describes how named sprites are laid out inside a single
// texture image.
//
// An Atlas is owned by at most one gtex.Texture, which closes it together
// with the texture. Sprites are placed either at explicit regions with Add
// or automatically with Pack, which uses shelf packing:
//
//	a := atlas.New(512, 512)
//	icon, err := a.Pack("icons/home", 32, 32)
//	if err != nil {
//	    return err
//	}
//	tex.SetSpriteAtlas(a)
//	// icon.UV holds normalized texture coordinates.
package atlas
