package scoring

import "github.com/vovakirdan/tui-tenthousand/internal/dice"

// maxLooseSingles is how many leftover 1s or 5s can be taken individually;
// three or more are already a group.
const maxLooseSingles = 2

// BestSelection picks the scoring subset of freshly rolled dice to auto-select.
//
// The order is fixed and deliberately greedy:
//  1. six dice forming a straight
//  2. six dice forming three pairs
//  3. groups from size 6 down to 3, faces 1..6, taking exactly the group size
//  4. up to two leftover 1s, then up to two leftover 5s
//  5. fallback: all 1s and 5s, else the first triple among faces 2..6
//
// Changing the order changes outcomes for ambiguous rolls.
// The result keeps the input order. An empty result means nothing scores.
func BestSelection(ds []dice.Die) []dice.Die {
	if len(ds) == 0 {
		return nil
	}

	c, n := countValues(dice.Values(ds))
	if isStraight(c, n) || isThreePairs(c, n) {
		return dice.Clone(ds)
	}

	taken := make([]bool, len(ds))
	take := func(value, want int) int {
		got := 0
		for i, d := range ds {
			if got == want {
				break
			}
			if !taken[i] && d.Value == value {
				taken[i] = true
				got++
			}
		}
		return got
	}

	remaining := c
	total := 0
	for size := dice.Count; size >= 3; size-- {
		for v := 1; v <= dice.Sides; v++ {
			if remaining[v] >= size {
				got := take(v, size)
				remaining[v] -= got
				total += got
			}
		}
	}

	total += take(1, min(remaining[1], maxLooseSingles))
	total += take(5, min(remaining[5], maxLooseSingles))

	if total == 0 {
		total += take(1, c[1])
		total += take(5, c[5])
		if total == 0 {
			for v := 2; v <= dice.Sides; v++ {
				if c[v] >= 3 {
					take(v, 3)
					break
				}
			}
		}
	}

	var out []dice.Die
	for i, d := range ds {
		if taken[i] {
			out = append(out, d)
		}
	}
	return out
}

// HasScoringDice reports whether any subset of the dice scores.
func HasScoringDice(ds []dice.Die) bool {
	return len(BestSelection(ds)) > 0
}
