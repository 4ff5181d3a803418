// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/gtex"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	manifest string
	format   string
)

var rootCmd = &cobra.Command{
	Use:   "gtex",
	Short: "Inspect and upload image textures",
	Long: `gtex loads images the way a gtex.Texture does and reports what the
GPU would receive: dimensions, pixel format, mip chain and upload traffic.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if verbose {
			gtex.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log texture and device events to stderr")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().StringVarP(&manifest, "manifest", "m", "", "TOML file with texture options")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Pixel format override (rgba, rgb, alpha, luminance, luminance_alpha)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// textureOptions resolves the manifest and the --format override.
func textureOptions() (gtex.Options, string, error) {
	m := defaultManifest()
	if manifest != "" {
		var err error
		if m, err = loadManifest(manifest); err != nil {
			return gtex.Options{}, "", err
		}
	}
	if format != "" {
		if err := m.Texture.PixelFormat.UnmarshalText([]byte(format)); err != nil {
			return gtex.Options{}, "", err
		}
	}
	return m.Texture, m.Label, nil
}

// printInfo prints a message unless in quiet mode.
func printInfo(w io.Writer, msg string, args ...any) {
	if !quiet {
		fmt.Fprintf(w, msg, args...)
	}
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
