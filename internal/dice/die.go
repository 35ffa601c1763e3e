// Package dice defines the six-sided dice used by the turn engine and the
// random source that rolls them.
package dice

import (
	"errors"
	"fmt"
)

const (
	// Count is the number of dice in a full roll.
	Count = 6
	// Sides is the number of faces on each die.
	Sides = 6
)

// ErrInvalidSet is returned when a die set breaks a structural invariant.
var ErrInvalidSet = errors.New("dice: invalid die set")

// Die is a single die within a turn chain.
// A die is in exactly one of three states: unlocked and unselected,
// unlocked and selected, or locked.
type Die struct {
	ID       int  // 1..Count, stable across rolls of the same turn chain
	Value    int  // 1..Sides
	Selected bool // Picked for scoring in the current roll
	Locked   bool // Held from an earlier roll; value is frozen
}

// String returns a compact representation like "3" or "[5]" (selected) or "(1)" (locked).
func (d Die) String() string {
	switch {
	case d.Locked:
		return fmt.Sprintf("(%d)", d.Value)
	case d.Selected:
		return fmt.Sprintf("[%d]", d.Value)
	default:
		return fmt.Sprintf("%d", d.Value)
	}
}

// Fresh returns unlocked, unselected dice with IDs 1..len(values) holding the given values.
func Fresh(values []int) []Die {
	out := make([]Die, len(values))
	for i, v := range values {
		out[i] = Die{ID: i + 1, Value: v}
	}
	return out
}

// Values extracts the face values of the given dice, in order.
func Values(ds []Die) []int {
	out := make([]int, len(ds))
	for i, d := range ds {
		out[i] = d.Value
	}
	return out
}

// Clone returns an independent copy of the slice.
func Clone(ds []Die) []Die {
	if ds == nil {
		return nil
	}
	out := make([]Die, len(ds))
	copy(out, ds)
	return out
}

// Validate checks the structural invariants of a die set:
// at most Count dice, unique IDs, values in range, and no die both locked and selected.
func Validate(ds []Die) error {
	if len(ds) > Count {
		return fmt.Errorf("%w: %d dice exceeds %d", ErrInvalidSet, len(ds), Count)
	}

	seen := make(map[int]bool, len(ds))
	for _, d := range ds {
		if seen[d.ID] {
			return fmt.Errorf("%w: duplicate die id %d", ErrInvalidSet, d.ID)
		}
		seen[d.ID] = true

		if d.Value < 1 || d.Value > Sides {
			return fmt.Errorf("%w: die %d has value %d", ErrInvalidSet, d.ID, d.Value)
		}
		if d.Locked && d.Selected {
			return fmt.Errorf("%w: die %d is both locked and selected", ErrInvalidSet, d.ID)
		}
	}
	return nil
}
