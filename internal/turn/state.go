// Package turn implements one player's turn as a pure reducer:
// Apply(state, action) returns the next state and the events it produced.
// Randomness never enters the reducer; rolled values arrive inside Roll actions.
package turn

import (
	"github.com/vovakirdan/tui-tenthousand/internal/dice"
	"github.com/vovakirdan/tui-tenthousand/internal/scoring"
)

// Phase is the turn state machine's current node.
type Phase int

const (
	PhaseAwaitingRoll Phase = iota
	PhaseRolling
	PhaseAwaitingSelection
	PhaseAwaitingBankOrContinue
	PhaseTurnLost
	PhaseScoreExceeded
	PhaseBanked
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingRoll:
		return "AwaitingRoll"
	case PhaseRolling:
		return "Rolling"
	case PhaseAwaitingSelection:
		return "AwaitingSelection"
	case PhaseAwaitingBankOrContinue:
		return "AwaitingBankOrContinue"
	case PhaseTurnLost:
		return "TurnLost"
	case PhaseScoreExceeded:
		return "ScoreExceeded"
	case PhaseBanked:
		return "Banked"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Resolved reports whether the turn has ended and is waiting to pass to the next player.
func (p Phase) Resolved() bool {
	return p == PhaseTurnLost || p == PhaseScoreExceeded || p == PhaseBanked
}

// CanRoll reports whether a Roll action is accepted in this phase.
func (p Phase) CanRoll() bool {
	return p == PhaseAwaitingRoll || p == PhaseAwaitingSelection || p == PhaseAwaitingBankOrContinue
}

// CanBank reports whether a Bank action is considered in this phase.
func (p Phase) CanBank() bool {
	return p == PhaseAwaitingSelection || p == PhaseAwaitingBankOrContinue
}

// State is the single aggregate for a turn in progress.
// BankedTotal and HasEntered describe the player before this turn is banked.
type State struct {
	Phase          Phase
	Dice           []dice.Die // Whole chain: locked and unlocked dice
	LockedScore    int        // Points held from earlier rolls of this turn
	SelectionScore int        // Points of the current selection
	BankedTotal    int
	HasEntered     bool
	Rules          Rules
}

// NewState starts a turn for a player with the given permanent total.
func NewState(rules Rules, bankedTotal int, hasEntered bool) State {
	return State{
		Phase:       PhaseAwaitingRoll,
		BankedTotal: bankedTotal,
		HasEntered:  hasEntered,
		Rules:       rules,
	}
}

// TurnTotal is the points accumulated this turn.
func (s State) TurnTotal() int {
	return s.LockedScore + s.SelectionScore
}

// Unlocked returns the dice that were part of the latest roll.
func (s State) Unlocked() []dice.Die {
	var out []dice.Die
	for _, d := range s.Dice {
		if !d.Locked {
			out = append(out, d)
		}
	}
	return out
}

// Selected returns the currently selected dice.
func (s State) Selected() []dice.Die {
	var out []dice.Die
	for _, d := range s.Dice {
		if d.Selected {
			out = append(out, d)
		}
	}
	return out
}

// HotDice reports whether every unlocked die is selected, so the next roll
// throws all six dice again while keeping the turn total.
func (s State) HotDice() bool {
	unlocked := s.Unlocked()
	if len(unlocked) == 0 {
		return false
	}
	for _, d := range unlocked {
		if !d.Selected {
			return false
		}
	}
	return true
}

// DiceToRoll is the number of values the next Roll action must carry.
func (s State) DiceToRoll() int {
	switch s.Phase {
	case PhaseAwaitingRoll:
		return dice.Count
	case PhaseAwaitingSelection, PhaseAwaitingBankOrContinue:
		if s.HotDice() {
			return dice.Count
		}
		return len(s.Unlocked()) - len(s.Selected())
	default:
		return 0
	}
}

// CanBankNow reports whether a Bank action would be accepted.
func (s State) CanBankNow() bool {
	return s.Phase.CanBank() && s.Rules.CanBank(s.TurnTotal(), s.HasEntered)
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	s.Dice = dice.Clone(s.Dice)
	return s
}

// Action is an input to the reducer.
type Action interface {
	action()
}

// Roll throws the unlocked dice. Values holds one face per die to roll,
// assigned to unlocked dice in ID order.
type Roll struct {
	Values []int
}

// Resolve evaluates the dice thrown by the last Roll.
type Resolve struct{}

// SelectDie adds one more die to the selection.
type SelectDie struct {
	ID int
}

// Finish ends the selection step.
type Finish struct{}

// Bank commits the turn total.
type Bank struct{}

// Forfeit gives up a turn in progress with nothing banked.
type Forfeit struct{}

func (Roll) action()      {}
func (Resolve) action()   {}
func (SelectDie) action() {}
func (Finish) action()    {}
func (Forfeit) action()   {}
func (Bank) action()      {}

// EventType identifies an event emitted by the reducer.
type EventType string

const (
	EvtDiceRolled      EventType = "DiceRolled"
	EvtHotDice         EventType = "HotDice"
	EvtSelectionScored EventType = "SelectionScored"
	EvtTurnLost        EventType = "TurnLost"
	EvtScoreExceeded   EventType = "ScoreExceeded"
	EvtBanked          EventType = "Banked"
	EvtGameOver        EventType = "GameOver"
)

// Event is something the presentation layer may react to.
type Event struct {
	Type      EventType
	Dice      []dice.Die       // DiceRolled, SelectionScored
	Points    int              // SelectionScored: selection points; Banked: turn score
	Category  scoring.Category // SelectionScored
	TurnTotal int
	Total     int // Banked, GameOver: new total; ScoreExceeded: attempted total
}

// ContainsEvent reports whether events holds an event of the given type.
func ContainsEvent(events []Event, t EventType) bool {
	for _, e := range events {
		if e.Type == t {
			return true
		}
	}
	return false
}
