// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gogpu/gtex"
)

func init() {
	rootCmd.AddCommand(newWatchCmd())
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <image>",
		Short: "Re-upload an image whenever it changes on disk",
		Long: `The watch command keeps an image resident on the GPU and re-uploads it
when the file changes. Only rows that differ from the previous version are
marked dirty, so small edits cause small uploads. A change of dimensions
reallocates the texture.

Example:
  gtex watch --verbose sprite.png
  gtex watch --backend vulkan --manifest ui.toml atlas.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout(), args[0])
		},
	}
}

func runWatch(ctx context.Context, w io.Writer, path string) error {
	opts, label, err := textureOptions()
	if err != nil {
		return err
	}

	dev, rctx, err := openBackend(backendName)
	if err != nil {
		return err
	}
	defer dev.Close()
	defer rctx.Close()

	tex := gtex.New(opts, gtex.WithLabel(label), gtex.WithDisposeBuffer(false))
	defer tex.Close()

	r := &reloader{tex: tex, ctx: rctx, unit: unit, decoder: gtex.DefaultDecoder()}
	if _, err := r.reloadFile(path); err != nil {
		return err
	}
	printInfo(w, "Watching %s on %s: %s\n", path, dev.Info(), tex)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			res, err := r.reloadFile(path)
			if err != nil {
				// Partially written files fail to decode; the next event retries.
				gtex.Logger().Warn("watch: reload failed", "file", path, "error", err)
				continue
			}
			res.print(w)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			gtex.Logger().Warn("watch: watcher error", "error", err)
		}
	}
}

// reloader applies new versions of an image to a resident texture.
type reloader struct {
	tex     *gtex.Texture
	ctx     gtex.RenderContext
	unit    uint32
	decoder gtex.Decoder
}

// reloadResult describes what one reload sent to the GPU.
type reloadResult struct {
	Resized bool
	Ranges  []gtex.RowRange
	Rows    int
}

func (res reloadResult) print(w io.Writer) {
	switch {
	case res.Resized:
		printInfo(w, "reloaded: dimensions changed, full upload\n")
	case len(res.Ranges) == 0:
		printInfo(w, "reloaded: no pixel changes\n")
	default:
		printInfo(w, "reloaded: %d rows in %d ranges %v\n", res.Rows, len(res.Ranges), res.Ranges)
	}
}

func (r *reloader) reloadFile(path string) (reloadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return reloadResult{}, fmt.Errorf("read image: %w", err)
	}
	return r.apply(data)
}

// apply decodes data and uploads the difference to the current contents.
func (r *reloader) apply(data []byte) (reloadResult, error) {
	img, err := r.decoder.Decode(data, r.tex.Options().PixelFormat)
	if err != nil {
		return reloadResult{}, fmt.Errorf("%w: %w", gtex.ErrDecode, err)
	}

	var res reloadResult
	old := r.tex.Pixels()
	if old == nil || img.Width != r.tex.Width() || img.Height != r.tex.Height() {
		if err := r.tex.MovePixelData(img.Width, img.Height, img.BytesPerPixel, img.Pix); err != nil {
			return reloadResult{}, err
		}
		res.Resized = true
	} else {
		stride := img.Width * img.BytesPerPixel
		res.Ranges = diffRows(old, img.Pix, stride)
		for _, rg := range res.Ranges {
			if err := r.tex.WriteRows(rg.Start, img.Pix[rg.Start*stride:rg.End*stride]); err != nil {
				return reloadResult{}, err
			}
			res.Rows += rg.Rows()
		}
	}

	if err := r.tex.Update(r.ctx, r.unit); err != nil {
		return reloadResult{}, err
	}
	return res, nil
}

// diffRows returns the row ranges where a and b differ. Both buffers must
// hold the same number of rows of stride bytes.
func diffRows(a, b []byte, stride int) []gtex.RowRange {
	if stride <= 0 {
		return nil
	}
	var ranges []gtex.RowRange
	rows := min(len(a), len(b)) / stride
	for y := range rows {
		off := y * stride
		if bytes.Equal(a[off:off+stride], b[off:off+stride]) {
			continue
		}
		if n := len(ranges); n > 0 && ranges[n-1].End == y {
			ranges[n-1].End = y + 1
			continue
		}
		ranges = append(ranges, gtex.RowRange{Start: y, End: y + 1})
	}
	return ranges
}
