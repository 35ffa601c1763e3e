// Package bot provides the decision sources for computer-controlled players.
// A bot never touches the turn state directly; it only answers roll or bank
// after the session has applied the same roll and auto-selection a human gets.
package bot

import (
	"github.com/vovakirdan/tui-tenthousand/internal/config"
)

// Decision is the action a policy asks for.
type Decision int

const (
	DecisionRoll Decision = iota
	DecisionBank
)

func (d Decision) String() string {
	if d == DecisionBank {
		return "bank"
	}
	return "roll"
}

// minSingle is the smallest score a roll can add (a single five).
const minSingle = 50

// View is the read-only slice of game state a policy decides on.
type View struct {
	TurnTotal      int
	BankedTotal    int
	HasEntered     bool
	DiceToRoll     int // Dice the next roll would throw
	Target         int
	EntryThreshold int
	LeaderTotal    int // Highest banked total among the other players
}

// CanBank reports whether a bank would be accepted.
func (v View) CanBank() bool {
	if v.TurnTotal <= 0 {
		return false
	}
	return v.HasEntered || v.TurnTotal >= v.EntryThreshold
}

// Remaining is the distance to the target after banking this turn.
func (v View) Remaining() int {
	return v.Target - v.BankedTotal - v.TurnTotal
}

// Policy decides whether a bot keeps rolling.
type Policy interface {
	Name() string
	Decide(v View) Decision
}

// ThresholdPolicy is the tiered risk policy shared by every difficulty.
type ThresholdPolicy struct {
	name string
	tier config.BotTier
}

// NewThresholdPolicy creates a policy with the given thresholds.
func NewThresholdPolicy(name string, tier config.BotTier) *ThresholdPolicy {
	return &ThresholdPolicy{name: name, tier: tier}
}

// Name returns the policy's display name.
func (p *ThresholdPolicy) Name() string {
	return p.name
}

// Tier returns the thresholds the policy was built with.
func (p *ThresholdPolicy) Tier() config.BotTier {
	return p.tier
}

// Decide applies the tier's thresholds, first match wins.
func (p *ThresholdPolicy) Decide(v View) Decision {
	if !v.CanBank() {
		return DecisionRoll
	}

	remaining := v.Remaining()
	switch {
	case remaining == 0:
		return DecisionBank
	case remaining < minSingle:
		// Any further score would overshoot.
		return DecisionBank
	case p.tier.NearTargetGuard > 0 && remaining <= p.tier.NearTargetGuard:
		return DecisionBank
	}

	bankAt := p.tier.BankAt
	if p.tier.ChaseGap > 0 && v.LeaderTotal-v.BankedTotal > p.tier.ChaseGap {
		bankAt += p.tier.ChaseBonus
	}
	if v.TurnTotal < bankAt {
		return DecisionRoll
	}
	if p.tier.MinDice > 0 && v.DiceToRoll >= p.tier.MinDice {
		return DecisionRoll
	}
	return DecisionBank
}
