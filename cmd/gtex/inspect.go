// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/gtex"
	"github.com/gogpu/gtex/internal/decode"
	"github.com/gogpu/gtex/internal/mipmap"
)

var inspectJSON bool

func init() {
	cmd := newInspectCmd()
	cmd.Flags().BoolVar(&inspectJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(cmd)
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <image>",
		Short: "Decode an image and describe the resulting texture",
		Long: `The inspect command decodes an image into a texture buffer without
touching the GPU and reports its size, pixel format and mip chain.

Example:
  gtex inspect icon.png
  gtex inspect --format alpha glyphs.png
  gtex inspect --manifest ui.toml --json atlas.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, label, err := textureOptions()
			if err != nil {
				return err
			}
			report, err := inspectFile(args[0], opts, label)
			if err != nil {
				return err
			}
			if inspectJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			report.print(cmd.OutOrStdout())
			return nil
		},
	}
}

// mipInfo is one level of the chain a texture would upload.
type mipInfo struct {
	Level  int `json:"level"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Bytes  int `json:"bytes"`
}

type inspectReport struct {
	File          string    `json:"file"`
	Container     string    `json:"container,omitempty"`
	Label         string    `json:"label,omitempty"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	PixelFormat   string    `json:"pixel_format"`
	BytesPerPixel int       `json:"bytes_per_pixel"`
	BufferSize    int       `json:"buffer_size"`
	DisplayScale  float32   `json:"display_scale"`
	DisplayWidth  float32   `json:"display_width"`
	DisplayHeight float32   `json:"display_height"`
	MinFilter     string    `json:"min_filter"`
	MagFilter     string    `json:"mag_filter"`
	Mips          []mipInfo `json:"mips"`
	TotalBytes    int       `json:"total_bytes"`
}

func inspectFile(path string, opts gtex.Options, label string) (*inspectReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	container, err := decode.Sniff(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	tex, err := gtex.NewFromMemory(data, opts, gtex.WithLabel(label))
	defer tex.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return describe(path, container, tex), nil
}

// describe reports the buffer and mip chain of a loaded texture.
func describe(path, container string, tex *gtex.Texture) *inspectReport {
	o := tex.Options()
	r := &inspectReport{
		File:          path,
		Container:     container,
		Label:         tex.Label(),
		Width:         tex.Width(),
		Height:        tex.Height(),
		PixelFormat:   o.PixelFormat.String(),
		BytesPerPixel: tex.BytesPerPixel(),
		BufferSize:    tex.BufferSize(),
		DisplayScale:  o.DisplayScale,
		DisplayWidth:  float32(tex.Width()) * o.DisplayScale,
		DisplayHeight: float32(tex.Height()) * o.DisplayScale,
		MinFilter:     o.MinFilter.String(),
		MagFilter:     o.MagFilter.String(),
	}

	levels := 1
	if o.GenerateMipmaps {
		levels = mipmap.LevelCount(r.Width, r.Height)
	}
	for i := range levels {
		w, h := mipmap.LevelSize(r.Width, r.Height, i)
		n := w * h * r.BytesPerPixel
		r.Mips = append(r.Mips, mipInfo{Level: i, Width: w, Height: h, Bytes: n})
		r.TotalBytes += n
	}
	return r
}

func (r *inspectReport) print(w io.Writer) {
	printInfo(w, "File:           %s\n", r.File)
	if r.Container != "" {
		printInfo(w, "Container:      %s\n", r.Container)
	}
	if r.Label != "" {
		printInfo(w, "Label:          %s\n", r.Label)
	}
	printInfo(w, "Size:           %dx%d\n", r.Width, r.Height)
	printInfo(w, "Display size:   %gx%g (scale %g)\n", r.DisplayWidth, r.DisplayHeight, r.DisplayScale)
	printInfo(w, "Pixel format:   %s (%d bytes per pixel)\n", r.PixelFormat, r.BytesPerPixel)
	printInfo(w, "Buffer:         %d bytes\n", r.BufferSize)
	printInfo(w, "Filters:        min %s, mag %s\n", r.MinFilter, r.MagFilter)
	printInfo(w, "Mip levels:     %d (%d bytes total)\n", len(r.Mips), r.TotalBytes)
	if len(r.Mips) > 1 {
		for _, m := range r.Mips {
			printInfo(w, "  %2d: %dx%d, %d bytes\n", m.Level, m.Width, m.Height, m.Bytes)
		}
	}
}
