// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package atlas

import "fmt"

// DefaultPadding is the spacing between packed regions.
const DefaultPadding = 1

// Region is a rectangle in atlas pixel coordinates.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// IsValid returns true if the region has positive dimensions.
func (r Region) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// Contains returns true if the point (x, y) is inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// In reports whether r lies within a width x height area.
func (r Region) In(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.Width <= width-r.X && r.Height <= height-r.Y
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// shelf is a horizontal strip of the packing area.
type shelf struct {
	y      int // top edge
	height int // height of the first item, padding included
	nextX  int // next free x
}

// Packer places rectangles into a fixed area with shelf packing: each item
// goes on the first shelf with room for it, or on a new shelf below the last.
type Packer struct {
	width   int
	height  int
	padding int
	shelves []shelf

	count    int
	usedArea int
}

// NewPacker creates a packer for a width x height area.
// Negative padding is treated as 0.
func NewPacker(width, height, padding int) *Packer {
	return &Packer{
		width:   max(width, 0),
		height:  max(height, 0),
		padding: max(padding, 0),
		shelves: make([]shelf, 0, 16),
	}
}

// Allocate finds space for a width x height rectangle.
// Returns an invalid region if it does not fit.
func (p *Packer) Allocate(width, height int) Region {
	if width <= 0 || height <= 0 || width > p.width || height > p.height {
		return Region{}
	}
	pw := width + p.padding
	ph := height + p.padding

	for i := range p.shelves {
		s := &p.shelves[i]
		// Trailing padding may overhang the right edge.
		if s.nextX+width > p.width || ph > s.height {
			continue
		}
		r := Region{X: s.nextX, Y: s.y, Width: width, Height: height}
		s.nextX += pw
		p.record(r)
		return r
	}

	y := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		y = last.y + last.height
	}
	if y+height > p.height {
		return Region{}
	}

	p.shelves = append(p.shelves, shelf{y: y, height: ph, nextX: pw})
	r := Region{X: 0, Y: y, Width: width, Height: height}
	p.record(r)
	return r
}

func (p *Packer) record(r Region) {
	p.count++
	p.usedArea += r.Width * r.Height
}

// Reset clears all allocations.
func (p *Packer) Reset() {
	p.shelves = p.shelves[:0]
	p.count = 0
	p.usedArea = 0
}

// Count returns the number of successful allocations.
func (p *Packer) Count() int { return p.count }

// UsedArea returns the total area of allocated rectangles.
func (p *Packer) UsedArea() int { return p.usedArea }

// Utilization returns the fraction of area used (0.0 to 1.0).
func (p *Packer) Utilization() float64 {
	total := p.width * p.height
	if total == 0 {
		return 0
	}
	return float64(p.usedArea) / float64(total)
}
