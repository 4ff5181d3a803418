// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package dirty tracks modified image rows as a minimal set of disjoint
// row ranges.
//
// Ranges are half-open [Start, End). Adding a range that overlaps or
// touches an existing one extends it instead of creating a new entry, so
// the number of stored ranges is always the number of non-contiguous
// modified regions. This bounds the number of partial uploads a texture
// has to issue.
//
// A Tracker is not safe for concurrent use.
package dirty

import (
	"fmt"
	"slices"
	"sort"
)

// Range is a half-open span of rows [Start, End).
type Range struct {
	Start int
	End   int
}

// Rows returns the number of rows covered by the range.
func (r Range) Rows() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// IsEmpty reports whether the range covers no rows.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// String returns a string representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("rows[%d,%d)", r.Start, r.End)
}

// Tracker holds a sorted set of disjoint, non-adjacent row ranges.
// The zero value is an empty tracker ready for use.
type Tracker struct {
	ranges []Range
}

// Add merges r into the set. Empty ranges are ignored.
func (t *Tracker) Add(r Range) {
	if r.IsEmpty() {
		return
	}

	// First range that overlaps or touches r.
	i := sort.Search(len(t.ranges), func(k int) bool {
		return t.ranges[k].End >= r.Start
	})
	// First range lying strictly after r (not touching).
	j := i + sort.Search(len(t.ranges)-i, func(k int) bool {
		return t.ranges[i+k].Start > r.End
	})

	if i < j {
		r.Start = min(r.Start, t.ranges[i].Start)
		r.End = max(r.End, t.ranges[j-1].End)
	}
	t.ranges = slices.Replace(t.ranges, i, j, r)
}

// AddRows marks count rows starting at start.
func (t *Tracker) AddRows(start, count int) {
	t.Add(Range{Start: start, End: start + count})
}

// Full replaces the set with the single range [0, height).
func (t *Tracker) Full(height int) {
	t.ranges = t.ranges[:0]
	t.Add(Range{Start: 0, End: height})
}

// Clamp drops rows at or beyond limit, truncating the range that crosses it.
func (t *Tracker) Clamp(limit int) {
	if limit <= 0 {
		t.Clear()
		return
	}
	n := 0
	for _, r := range t.ranges {
		if r.Start >= limit {
			break
		}
		r.End = min(r.End, limit)
		t.ranges[n] = r
		n++
	}
	t.ranges = t.ranges[:n]
}

// Ranges returns a copy of the current ranges in ascending order.
func (t *Tracker) Ranges() []Range {
	return slices.Clone(t.ranges)
}

// Each calls fn for every range in ascending order.
func (t *Tracker) Each(fn func(Range)) {
	for _, r := range t.ranges {
		fn(r)
	}
}

// Len returns the number of disjoint ranges.
func (t *Tracker) Len() int {
	return len(t.ranges)
}

// Empty reports whether no rows are dirty.
func (t *Tracker) Empty() bool {
	return len(t.ranges) == 0
}

// Rows returns the total number of dirty rows.
func (t *Tracker) Rows() int {
	n := 0
	for _, r := range t.ranges {
		n += r.Rows()
	}
	return n
}

// Clear removes all ranges. The backing storage is kept for reuse.
func (t *Tracker) Clear() {
	t.ranges = t.ranges[:0]
}
