package turn

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-tenthousand/internal/dice"
	"github.com/vovakirdan/tui-tenthousand/internal/scoring"
)

var (
	// ErrInvalidAction marks an action that is illegal in the current state.
	// The state is left untouched; callers show the reason as an advisory.
	ErrInvalidAction = errors.New("turn: invalid action")

	// ErrRollRejected is returned when a Roll carries the wrong number of values.
	// The state is left untouched so the roll can be retried.
	ErrRollRejected = errors.New("turn: roll rejected")

	// ErrInvariantViolation means the reducer produced an impossible state.
	// It indicates a bug and must never be silently corrected.
	ErrInvariantViolation = errors.New("turn: invariant violation")
)

// InvalidActionError carries the human-readable reason an action was refused.
type InvalidActionError struct {
	Reason string
}

func (e *InvalidActionError) Error() string {
	return "turn: invalid action: " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidAction) match.
func (e *InvalidActionError) Is(target error) bool {
	return target == ErrInvalidAction
}

func invalid(format string, args ...any) error {
	return &InvalidActionError{Reason: fmt.Sprintf(format, args...)}
}

// Apply runs one action against a state. It never mutates s.
// On error the returned state is s and no events are produced.
func Apply(s State, a Action) (State, []Event, error) {
	if s.Phase == PhaseGameOver {
		return s, nil, invalid("the game is over")
	}

	next := s.Clone()
	var (
		events []Event
		err    error
	)

	switch act := a.(type) {
	case Roll:
		events, err = applyRoll(&next, act)
	case Resolve:
		events, err = applyResolve(&next)
	case SelectDie:
		events, err = applySelect(&next, act)
	case Finish:
		events, err = applyFinish(&next)
	case Bank:
		events, err = applyBank(&next)
	case Forfeit:
		events, err = applyForfeit(&next)
	default:
		err = invalid("unsupported action %T", a)
	}

	if err != nil {
		return s, nil, err
	}
	if err := Validate(next); err != nil {
		return s, nil, err
	}
	return next, events, nil
}

func applyRoll(s *State, a Roll) ([]Event, error) {
	if !s.Phase.CanRoll() {
		return nil, invalid("cannot roll while %s", s.Phase)
	}
	if s.Phase == PhaseAwaitingSelection {
		s.Phase = PhaseAwaitingBankOrContinue
	}

	want := s.DiceToRoll()
	if len(a.Values) != want {
		return nil, fmt.Errorf("%w: got %d values for %d dice", ErrRollRejected, len(a.Values), want)
	}

	var events []Event
	switch s.Phase {
	case PhaseAwaitingRoll:
		s.Dice = dice.Fresh(a.Values)
		s.LockedScore = 0
		s.SelectionScore = 0

	case PhaseAwaitingBankOrContinue:
		hot := s.HotDice()
		s.LockedScore += s.SelectionScore
		s.SelectionScore = 0

		if hot {
			s.Dice = dice.Fresh(a.Values)
			events = append(events, Event{Type: EvtHotDice, TurnTotal: s.TurnTotal()})
			break
		}

		next := 0
		for i := range s.Dice {
			d := &s.Dice[i]
			if d.Selected {
				d.Selected = false
				d.Locked = true
				continue
			}
			if d.Locked {
				continue
			}
			d.Value = a.Values[next]
			next++
		}
	}

	s.Phase = PhaseRolling
	events = append(events, Event{
		Type:      EvtDiceRolled,
		Dice:      dice.Clone(s.Dice),
		TurnTotal: s.TurnTotal(),
	})
	return events, nil
}

func applyResolve(s *State) ([]Event, error) {
	if s.Phase != PhaseRolling {
		return nil, invalid("no roll to resolve")
	}

	sel := scoring.BestSelection(s.Unlocked())
	if len(sel) == 0 {
		lost := s.TurnTotal()
		s.LockedScore = 0
		s.SelectionScore = 0
		s.Phase = PhaseTurnLost
		return []Event{{Type: EvtTurnLost, Dice: dice.Clone(s.Dice), TurnTotal: lost}}, nil
	}

	picked := make(map[int]bool, len(sel))
	for _, d := range sel {
		picked[d.ID] = true
	}
	for i := range s.Dice {
		if picked[s.Dice[i].ID] {
			s.Dice[i].Selected = true
		}
	}

	res := scoring.ScoreDice(sel)
	s.SelectionScore = res.Points
	s.Phase = PhaseAwaitingSelection

	events := []Event{{
		Type:      EvtSelectionScored,
		Dice:      dice.Clone(s.Dice),
		Points:    res.Points,
		Category:  res.Category,
		TurnTotal: s.TurnTotal(),
	}}
	if evt, over := checkOvershoot(s); over {
		events = append(events, evt)
	}
	return events, nil
}

func applySelect(s *State, a SelectDie) ([]Event, error) {
	if s.Phase != PhaseAwaitingSelection {
		return nil, invalid("dice can only be added right after a roll")
	}

	idx := -1
	for i, d := range s.Dice {
		if d.ID == a.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, invalid("there is no die %d", a.ID)
	}

	d := s.Dice[idx]
	switch {
	case d.Locked:
		return nil, invalid("die %d is locked", a.ID)
	case d.Selected:
		return nil, invalid("die %d is already selected", a.ID)
	}

	res := scoring.ScoreDice(append(s.Selected(), d))
	if res.Points <= s.SelectionScore {
		return nil, invalid("die %d does not add to the score", a.ID)
	}

	s.Dice[idx].Selected = true
	s.SelectionScore = res.Points

	events := []Event{{
		Type:      EvtSelectionScored,
		Dice:      dice.Clone(s.Dice),
		Points:    res.Points,
		Category:  res.Category,
		TurnTotal: s.TurnTotal(),
	}}
	if evt, over := checkOvershoot(s); over {
		events = append(events, evt)
	}
	return events, nil
}

func applyFinish(s *State) ([]Event, error) {
	if s.Phase != PhaseAwaitingSelection {
		return nil, invalid("no selection in progress")
	}
	s.Phase = PhaseAwaitingBankOrContinue
	return nil, nil
}

func applyBank(s *State) ([]Event, error) {
	if !s.Phase.CanBank() {
		return nil, invalid("nothing to bank")
	}

	total := s.TurnTotal()
	if !s.Rules.CanBank(total, s.HasEntered) {
		return nil, invalid("need %d points in one turn to get on the board (have %d)", s.Rules.EntryThreshold, total)
	}

	if evt, over := checkOvershoot(s); over {
		return []Event{evt}, nil
	}

	attempted := s.BankedTotal + total
	s.BankedTotal = attempted
	s.HasEntered = true

	events := []Event{{Type: EvtBanked, Points: total, TurnTotal: total, Total: attempted}}
	if HasWon(attempted, s.Rules.Target) {
		s.Phase = PhaseGameOver
		return append(events, Event{Type: EvtGameOver, TurnTotal: total, Total: attempted}), nil
	}
	s.Phase = PhaseBanked
	return events, nil
}

func applyForfeit(s *State) ([]Event, error) {
	if s.Phase.Resolved() {
		return nil, invalid("the turn is already over")
	}
	lost := s.TurnTotal()
	s.LockedScore = 0
	s.SelectionScore = 0
	s.Phase = PhaseTurnLost
	return []Event{{Type: EvtTurnLost, Dice: dice.Clone(s.Dice), TurnTotal: lost}}, nil
}

// checkOvershoot forfeits the turn when banked plus turn total passes the target.
func checkOvershoot(s *State) (Event, bool) {
	total := s.TurnTotal()
	attempted := s.BankedTotal + total
	if !IsOvershoot(attempted, s.Rules.Target) {
		return Event{}, false
	}
	s.LockedScore = 0
	s.SelectionScore = 0
	s.Phase = PhaseScoreExceeded
	return Event{Type: EvtScoreExceeded, TurnTotal: total, Total: attempted}, true
}

// Validate checks the invariants every reachable state satisfies.
func Validate(s State) error {
	if err := dice.Validate(s.Dice); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}
	if s.LockedScore < 0 || s.SelectionScore < 0 || s.BankedTotal < 0 {
		return fmt.Errorf("%w: negative score (locked %d, selection %d, banked %d)",
			ErrInvariantViolation, s.LockedScore, s.SelectionScore, s.BankedTotal)
	}
	// A turn forfeited before its first roll has no dice.
	noDice := s.Phase == PhaseAwaitingRoll || (s.Phase == PhaseTurnLost && len(s.Dice) == 0)
	if !noDice && len(s.Dice) != dice.Count {
		return fmt.Errorf("%w: %d dice in phase %s", ErrInvariantViolation, len(s.Dice), s.Phase)
	}
	return nil
}
