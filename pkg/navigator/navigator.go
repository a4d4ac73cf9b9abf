// Package navigator tracks the active step of a fixed-length form.
package navigator

import "fmt"

// Navigator owns the current step ordinal. Every operation is total: moving
// past either end is a silent no-op, so the ordinal always stays within
// [0, Count()). It is not safe for concurrent use.
type Navigator struct {
	current int
	count   int
}

// New returns a navigator positioned on the first of count steps. A count
// below one is a programming error.
func New(count int) *Navigator {
	if count < 1 {
		panic(fmt.Sprintf("navigator: step count must be positive, got %d", count))
	}
	return &Navigator{count: count}
}

// Current returns the active ordinal.
func (n *Navigator) Current() int { return n.current }

// Count returns the number of steps.
func (n *Navigator) Count() int { return n.count }

// IsFirst reports whether the first step is active.
func (n *Navigator) IsFirst() bool { return n.current == 0 }

// IsLast reports whether the last step is active.
func (n *Navigator) IsLast() bool { return n.current == n.count-1 }

// Next advances one step unless the last step is active.
func (n *Navigator) Next() {
	if !n.IsLast() {
		n.current++
	}
}

// Previous moves back one step unless the first step is active.
func (n *Navigator) Previous() {
	if !n.IsFirst() {
		n.current--
	}
}

// Reset returns to the first step.
func (n *Navigator) Reset() {
	n.current = 0
}
