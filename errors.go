// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gtex

import "errors"

// Texture errors. Every fallible operation returns one of these, possibly
// wrapped with detail; test with errors.Is.
var (
	// ErrDecode is returned when an encoded image cannot be turned into pixels.
	ErrDecode = errors.New("gtex: decode failed")

	// ErrSanity is the class of all pixel-data validation failures.
	ErrSanity = errors.New("gtex: pixel data failed sanity check")

	// ErrInvalidDimensions is returned for negative width, height or bytes per pixel.
	ErrInvalidDimensions = errors.New("gtex: invalid dimensions")

	// ErrFormatMismatch is returned when bytes per pixel disagrees with the pixel format.
	ErrFormatMismatch = errors.New("gtex: bytes per pixel does not match pixel format")

	// ErrOverflow is returned when width*height*bytesPerPixel does not fit in an int.
	ErrOverflow = errors.New("gtex: image size overflows")

	// ErrSizeMismatch is returned when the data length is not width*height*bytesPerPixel.
	ErrSizeMismatch = errors.New("gtex: data length does not match dimensions")

	// ErrAllocation is returned when the render context cannot create or
	// reallocate the GPU texture.
	ErrAllocation = errors.New("gtex: GPU texture allocation failed")

	// ErrUpload is returned when writing pixel rows to the GPU fails.
	ErrUpload = errors.New("gtex: GPU upload failed")

	// ErrNilContext is returned when Update is called without a render context.
	ErrNilContext = errors.New("gtex: nil render context")

	// ErrContextMismatch is returned when a texture is updated through a
	// render context other than the one that allocated its handle.
	ErrContextMismatch = errors.New("gtex: texture handle belongs to another render context")

	// ErrClosed is returned when operating on a closed texture.
	ErrClosed = errors.New("gtex: texture is closed")

	// ErrInvalidOption is returned for unknown option values.
	ErrInvalidOption = errors.New("gtex: invalid option")

	// ErrRowsOutOfBounds is returned by WriteRows for rows outside the image.
	ErrRowsOutOfBounds = errors.New("gtex: rows out of bounds")

	// ErrNoBuffer is returned by WriteRows when the CPU buffer has been released.
	ErrNoBuffer = errors.New("gtex: no CPU buffer")
)

// sanityError carries the classification of a failed sanity check.
// It matches both ErrSanity and the specific cause.
type sanityError struct {
	cause  error
	detail string
}

func (e *sanityError) Error() string {
	return e.cause.Error() + ": " + e.detail
}

func (e *sanityError) Is(target error) bool {
	return target == ErrSanity || target == e.cause
}

func (e *sanityError) Unwrap() error {
	return e.cause
}
