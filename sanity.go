// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gtex

import (
	"fmt"
	"math"
)

// SanityCheck validates pixel data before a buffer is adopted: values must be
// non-negative, bytesPerPixel must match the texture's pixel format,
// width*height*bytesPerPixel must not overflow and must equal length.
//
// The returned error matches ErrSanity and one of ErrInvalidDimensions,
// ErrFormatMismatch, ErrOverflow or ErrSizeMismatch.
func (t *Texture) SanityCheck(width, height, bytesPerPixel, length int) error {
	return sanityCheck(t.options.PixelFormat, width, height, bytesPerPixel, length)
}

func sanityCheck(format PixelFormat, width, height, bytesPerPixel, length int) error {
	if width < 0 || height < 0 || bytesPerPixel < 0 || length < 0 {
		return &sanityError{
			cause:  ErrInvalidDimensions,
			detail: fmt.Sprintf("%dx%d, %d bytes per pixel, length %d", width, height, bytesPerPixel, length),
		}
	}

	if want := format.BytesPerPixel(); bytesPerPixel != want {
		return &sanityError{
			cause:  ErrFormatMismatch,
			detail: fmt.Sprintf("format %s has %d bytes per pixel, got %d", format, want, bytesPerPixel),
		}
	}

	size, ok := mulSize(width, height, bytesPerPixel)
	if !ok {
		return &sanityError{
			cause:  ErrOverflow,
			detail: fmt.Sprintf("%dx%dx%d", width, height, bytesPerPixel),
		}
	}

	if size != length {
		return &sanityError{
			cause:  ErrSizeMismatch,
			detail: fmt.Sprintf("expected %d bytes for %dx%dx%d, got %d", size, width, height, bytesPerPixel, length),
		}
	}
	return nil
}

// mulSize multiplies non-negative values, reporting false on overflow.
func mulSize(values ...int) (int, bool) {
	n := 1
	for _, v := range values {
		if v != 0 && n > math.MaxInt/v {
			return 0, false
		}
		n *= v
	}
	return n, true
}
