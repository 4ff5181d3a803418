// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gogpu/wgpu/hal/software"
	"github.com/spf13/cobra"

	"github.com/gogpu/gtex"
	"github.com/gogpu/gtex/backend/wgpu"
)

var (
	backendName string
	unit        uint32
	verify      bool
)

var errVerify = errors.New("readback does not match the CPU buffer")

func init() {
	cmd := newUploadCmd()
	cmd.Flags().BoolVar(&verify, "verify", false, "Read the texture back and compare (software backend, rgba/rgb only)")
	rootCmd.AddCommand(cmd)

	rootCmd.PersistentFlags().StringVarP(&backendName, "backend", "b", wgpu.BackendSoftware,
		"GPU backend ("+strings.Join([]string{
			wgpu.BackendVulkan, wgpu.BackendMetal, wgpu.BackendDX12,
			wgpu.BackendGLES, wgpu.BackendSoftware, wgpu.BackendNoop,
		}, ", ")+", or empty for the best available)")
	rootCmd.PersistentFlags().Uint32Var(&unit, "unit", 0, "Texture unit to bind")
}

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Allocate and upload an image through a GPU backend",
		Long: `The upload command loads an image into a texture, runs one Update
through the selected backend and reports the GPU work it caused.

Example:
  gtex upload sprite.png
  gtex upload --backend vulkan --manifest sprite.toml sprite.png
  gtex upload --verify --format rgb photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd.OutOrStdout(), args[0])
		},
	}
}

// openBackend opens the named backend and a render context on it.
func openBackend(name string) (*wgpu.Device, *wgpu.Context, error) {
	dev, err := wgpu.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return dev, dev.NewContext(), nil
}

func runUpload(w io.Writer, path string) error {
	opts, label, err := textureOptions()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	dev, ctx, err := openBackend(backendName)
	if err != nil {
		return err
	}
	defer dev.Close()
	defer ctx.Close()

	tex, err := gtex.NewFromMemory(data, opts, gtex.WithLabel(label), gtex.WithDisposeBuffer(!verify))
	defer tex.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	start := time.Now()
	if err := tex.Update(ctx, unit); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	elapsed := time.Since(start)

	printInfo(w, "GPU:      %s\n", dev.Info())
	printInfo(w, "Texture:  %s\n", tex)
	printInfo(w, "State:    %s\n", tex.State())
	printStats(w, ctx.Stats(), elapsed)

	if verify {
		if err := verifyUpload(ctx, tex); err != nil {
			return err
		}
		printInfo(w, "Verify:   ok\n")
	}
	return nil
}

func printStats(w io.Writer, s wgpu.Stats, elapsed time.Duration) {
	printInfo(w, "Uploads:  %d (%d bytes) in %v\n", s.Uploads, s.BytesUploaded, elapsed.Round(time.Microsecond))
	printInfo(w, "Creates:  %d, resizes: %d, binds: %d\n", s.Creates, s.Resizes, s.Binds)
}

// verifyUpload compares level 0 of a software texture with the CPU buffer.
func verifyUpload(ctx *wgpu.Context, tex *gtex.Texture) error {
	st, ok := ctx.Texture(tex.Handle()).(*software.Texture)
	if !ok {
		return fmt.Errorf("verify: backend %q has no readback", backendName)
	}

	want := tex.Pixels()
	switch tex.Options().PixelFormat {
	case gtex.PixelFormatRGBA:
	case gtex.PixelFormatRGB:
		want = rgbToRGBA(want)
	default:
		return fmt.Errorf("verify: pixel format %s is not supported", tex.Options().PixelFormat)
	}

	got := st.GetData()
	if len(got) < len(want) || !bytes.Equal(got[:len(want)], want) {
		return errVerify
	}
	return nil
}

func rgbToRGBA(src []byte) []byte {
	dst := make([]byte, 0, len(src)/3*4)
	for i := 0; i+2 < len(src); i += 3 {
		dst = append(dst, src[i], src[i+1], src[i+2], 0xff)
	}
	return dst
}
