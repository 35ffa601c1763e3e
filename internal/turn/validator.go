package turn

import (
	"github.com/vovakirdan/tui-tenthousand/internal/dice"
	"github.com/vovakirdan/tui-tenthousand/internal/scoring"
)

// Default game parameters.
const (
	DefaultTarget         = 10000
	DefaultEntryThreshold = 500
)

// Rules holds the per-game parameters the validators depend on.
type Rules struct {
	Target         int
	EntryThreshold int
}

// DefaultRules returns the standard 10,000 rules.
func DefaultRules() Rules {
	return Rules{
		Target:         DefaultTarget,
		EntryThreshold: DefaultEntryThreshold,
	}
}

// CanBank reports whether a turn total may be banked under these rules.
// A player who has not entered yet needs at least EntryThreshold in one turn.
func (r Rules) CanBank(turnTotal int, hasEntered bool) bool {
	if turnTotal <= 0 {
		return false
	}
	return hasEntered || turnTotal >= r.EntryThreshold
}

// HasScoringDice reports whether the dice contain any scoring subset.
func HasScoringDice(ds []dice.Die) bool {
	return scoring.HasScoringDice(ds)
}

// CanBank applies the default entry threshold.
func CanBank(turnTotal int, hasEntered bool) bool {
	return DefaultRules().CanBank(turnTotal, hasEntered)
}

// HasWon reports an exact hit on the target.
func HasWon(total, target int) bool {
	return total == target
}

// IsOvershoot reports a total past the target.
func IsOvershoot(total, target int) bool {
	return total > target
}
