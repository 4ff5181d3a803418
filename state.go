// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gtex

import "fmt"

// State is the reconciliation state between the CPU buffer and GPU storage.
type State uint8

const (
	// StateUnallocated means no GPU texture exists.
	StateUnallocated State = iota

	// StateClean means GPU storage matches the CPU buffer.
	StateClean

	// StateDirty means some rows must be re-uploaded.
	StateDirty

	// StateNeedsResize means GPU storage must be reallocated at new dimensions.
	StateNeedsResize
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnallocated:
		return "Unallocated"
	case StateClean:
		return "Clean"
	case StateDirty:
		return "Dirty"
	case StateNeedsResize:
		return "NeedsResize"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// State returns the current reconciliation state. Update acts on it.
func (t *Texture) State() State {
	switch {
	case t.handle.IsZero():
		return StateUnallocated
	case t.shouldResize:
		return StateNeedsResize
	case !t.dirty.Empty():
		return StateDirty
	default:
		return StateClean
	}
}
