// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/gtex"
)

// textureManifest is the TOML description of how an image becomes a texture:
//
//	label = "ui-atlas"
//
//	[texture]
//	min_filter = "linear_mipmap_linear"
//	wrap_s = "repeat"
//	generate_mipmaps = true
type textureManifest struct {
	Label   string       `toml:"label"`
	Texture gtex.Options `toml:"texture"`
}

func defaultManifest() textureManifest {
	return textureManifest{Texture: gtex.DefaultOptions()}
}

// parseManifest decodes a manifest over the defaults. Unknown keys are errors.
func parseManifest(data []byte) (textureManifest, error) {
	m := defaultManifest()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return textureManifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Texture.Validate(); err != nil {
		return textureManifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}

func loadManifest(path string) (textureManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return textureManifest{}, fmt.Errorf("read manifest: %w", err)
	}
	m, err := parseManifest(data)
	if err != nil {
		return textureManifest{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
