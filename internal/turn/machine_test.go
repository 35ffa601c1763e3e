package turn

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-tenthousand/internal/dice"
)

// mustApply applies an action and fails the test on error.
func mustApply(t *testing.T, s State, a Action) (State, []Event) {
	t.Helper()
	next, events, err := Apply(s, a)
	if err != nil {
		t.Fatalf("Apply(%s, %T) failed: %v", s.Phase, a, err)
	}
	return next, events
}

func rollAndResolve(t *testing.T, s State, values ...int) (State, []Event) {
	t.Helper()
	s, rolled := mustApply(t, s, Roll{Values: values})
	s, resolved := mustApply(t, s, Resolve{})
	return s, append(rolled, resolved...)
}

func TestValidators(t *testing.T) {
	if !HasWon(10000, 10000) {
		t.Error("HasWon(10000, 10000) should be true")
	}
	if HasWon(10001, 10000) {
		t.Error("HasWon(10001, 10000) should be false")
	}
	if !IsOvershoot(10001, 10000) || IsOvershoot(10000, 10000) {
		t.Error("IsOvershoot mismatch")
	}
	if CanBank(300, false) {
		t.Error("CanBank(300, false) should be false")
	}
	if !CanBank(500, false) {
		t.Error("CanBank(500, false) should be true")
	}
	if !CanBank(50, true) {
		t.Error("CanBank(50, true) should be true")
	}
	if CanBank(0, true) {
		t.Error("CanBank(0, true) should be false")
	}
	if !HasScoringDice(dice.Fresh([]int{2, 2, 2, 3, 4, 6})) {
		t.Error("triple should score")
	}
	if HasScoringDice(dice.Fresh([]int{2, 3, 4, 6, 6, 3})) {
		t.Error("no 1s, 5s or triples should not score")
	}
}

func TestScenarioTripleOnesCanEnter(t *testing.T) {
	s := NewState(DefaultRules(), 0, false)
	s, events := rollAndResolve(t, s, 1, 1, 1, 2, 3, 4)

	if s.Phase != PhaseAwaitingSelection {
		t.Fatalf("phase = %s, want AwaitingSelection", s.Phase)
	}
	if got := len(s.Selected()); got != 3 {
		t.Errorf("selected %d dice, want 3", got)
	}
	for _, d := range s.Selected() {
		if d.Value != 1 {
			t.Errorf("selected non-one die %v", d)
		}
	}
	if s.TurnTotal() != 1000 {
		t.Errorf("TurnTotal() = %d, want 1000", s.TurnTotal())
	}
	if !s.CanBankNow() {
		t.Error("player below entry should be able to bank 1000")
	}
	if !ContainsEvent(events, EvtDiceRolled) || !ContainsEvent(events, EvtSelectionScored) {
		t.Errorf("missing events: %+v", events)
	}

	s, events = mustApply(t, s, Bank{})
	if s.Phase != PhaseBanked {
		t.Errorf("phase = %s, want Banked", s.Phase)
	}
	if s.BankedTotal != 1000 || !s.HasEntered {
		t.Errorf("banked = %d entered = %v", s.BankedTotal, s.HasEntered)
	}
	if !ContainsEvent(events, EvtBanked) {
		t.Error("missing Banked event")
	}
}

func TestScenarioOvershootForfeits(t *testing.T) {
	s := NewState(DefaultRules(), 9700, true)

	// 300 from the first roll, 100 more from the second: 400 total.
	s, _ = rollAndResolve(t, s, 3, 3, 3, 2, 4, 6)
	if s.Phase != PhaseAwaitingSelection || s.TurnTotal() != 300 {
		t.Fatalf("after first roll phase=%s total=%d", s.Phase, s.TurnTotal())
	}

	s, events := rollAndResolve(t, s, 1, 2, 4)
	if s.Phase != PhaseScoreExceeded {
		t.Fatalf("phase = %s, want ScoreExceeded", s.Phase)
	}
	if s.BankedTotal != 9700 {
		t.Errorf("banked total changed to %d", s.BankedTotal)
	}
	if s.TurnTotal() != 0 {
		t.Errorf("turn total not discarded: %d", s.TurnTotal())
	}

	var exceeded *Event
	for i := range events {
		if events[i].Type == EvtScoreExceeded {
			exceeded = &events[i]
		}
	}
	if exceeded == nil {
		t.Fatal("missing ScoreExceeded event")
	}
	if exceeded.Total != 10100 || exceeded.TurnTotal != 400 {
		t.Errorf("ScoreExceeded total=%d turn=%d, want 10100/400", exceeded.Total, exceeded.TurnTotal)
	}
}

func TestScenarioExactTargetWins(t *testing.T) {
	s := NewState(DefaultRules(), 9500, true)
	s, _ = rollAndResolve(t, s, 5, 5, 5, 2, 3, 4)
	if s.TurnTotal() != 500 {
		t.Fatalf("TurnTotal() = %d, want 500", s.TurnTotal())
	}

	s, events := mustApply(t, s, Bank{})
	if s.Phase != PhaseGameOver {
		t.Fatalf("phase = %s, want GameOver", s.Phase)
	}
	if s.BankedTotal != 10000 {
		t.Errorf("BankedTotal = %d, want 10000", s.BankedTotal)
	}
	if !ContainsEvent(events, EvtGameOver) {
		t.Error("missing GameOver event")
	}

	if _, _, err := Apply(s, Roll{Values: []int{1, 2, 3, 4, 5, 6}}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("action after game over = %v, want ErrInvalidAction", err)
	}
}

func TestScenarioNoScoringDiceLosesTurn(t *testing.T) {
	s := NewState(DefaultRules(), 2000, true)
	s, _ = rollAndResolve(t, s, 1, 2, 3, 4, 6, 6)
	if s.TurnTotal() != 100 {
		t.Fatalf("TurnTotal() = %d, want 100", s.TurnTotal())
	}

	s, events := rollAndResolve(t, s, 2, 3, 4, 6, 6)
	if s.Phase != PhaseTurnLost {
		t.Fatalf("phase = %s, want TurnLost", s.Phase)
	}
	if s.TurnTotal() != 0 || s.BankedTotal != 2000 {
		t.Errorf("turn=%d banked=%d", s.TurnTotal(), s.BankedTotal)
	}
	if !ContainsEvent(events, EvtTurnLost) {
		t.Error("missing TurnLost event")
	}
}

func TestLockedDiceKeepValues(t *testing.T) {
	s := NewState(DefaultRules(), 0, false)
	s, _ = rollAndResolve(t, s, 1, 5, 2, 3, 6, 6)
	if s.TurnTotal() != 150 {
		t.Fatalf("TurnTotal() = %d, want 150", s.TurnTotal())
	}
	if s.DiceToRoll() != 4 {
		t.Fatalf("DiceToRoll() = %d, want 4", s.DiceToRoll())
	}

	s, _ = mustApply(t, s, Roll{Values: []int{5, 2, 2, 3}})
	if s.Dice[0].Value != 1 || !s.Dice[0].Locked {
		t.Errorf("die 1 = %+v, want locked 1", s.Dice[0])
	}
	if s.Dice[1].Value != 5 || !s.Dice[1].Locked {
		t.Errorf("die 2 = %+v, want locked 5", s.Dice[1])
	}
	if s.Dice[2].Value != 5 {
		t.Errorf("die 3 = %+v, want rolled 5", s.Dice[2])
	}
	if s.LockedScore != 150 {
		t.Errorf("LockedScore = %d, want 150", s.LockedScore)
	}

	s, _ = mustApply(t, s, Resolve{})
	if s.TurnTotal() != 200 {
		t.Errorf("TurnTotal() = %d, want 200", s.TurnTotal())
	}
}

func TestHotDiceRerollsAllSix(t *testing.T) {
	s := NewState(DefaultRules(), 0, false)
	s, _ = rollAndResolve(t, s, 1, 2, 3, 4, 5, 6)
	if !s.HotDice() {
		t.Fatal("straight should be hot dice")
	}
	if s.DiceToRoll() != 6 {
		t.Fatalf("DiceToRoll() = %d, want 6", s.DiceToRoll())
	}

	s, events := mustApply(t, s, Roll{Values: []int{2, 3, 4, 6, 6, 5}})
	if !ContainsEvent(events, EvtHotDice) {
		t.Error("missing HotDice event")
	}
	for _, d := range s.Dice {
		if d.Locked || d.Selected {
			t.Errorf("die %d not fresh after hot dice: %+v", d.ID, d)
		}
	}
	if s.LockedScore != 1500 {
		t.Errorf("LockedScore = %d, want 1500", s.LockedScore)
	}

	s, _ = mustApply(t, s, Resolve{})
	if s.TurnTotal() != 1550 {
		t.Errorf("TurnTotal() = %d, want 1550", s.TurnTotal())
	}
}

func TestSelectDie(t *testing.T) {
	s := NewState(DefaultRules(), 0, false)
	s, _ = rollAndResolve(t, s, 1, 1, 1, 2, 3, 4)

	tests := []struct {
		name string
		id   int
	}{
		{"already selected", 1},
		{"non scoring", 4},
		{"unknown", 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, events, err := Apply(s, SelectDie{ID: tt.id})
			if !errors.Is(err, ErrInvalidAction) {
				t.Fatalf("err = %v, want ErrInvalidAction", err)
			}
			var iae *InvalidActionError
			if !errors.As(err, &iae) || iae.Reason == "" {
				t.Errorf("expected advisory reason, got %v", err)
			}
			if events != nil || next.TurnTotal() != s.TurnTotal() {
				t.Error("rejected action changed state")
			}
		})
	}

	// Lock the ones, then try to select a locked die.
	s, _ = rollAndResolve(t, s, 5, 2, 3)
	if _, _, err := Apply(s, SelectDie{ID: 1}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("selecting locked die = %v, want ErrInvalidAction", err)
	}
}

func TestBankRequiresEntry(t *testing.T) {
	s := NewState(DefaultRules(), 0, false)
	s, _ = rollAndResolve(t, s, 1, 5, 2, 3, 6, 6)

	next, _, err := Apply(s, Bank{})
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("bank below entry = %v, want ErrInvalidAction", err)
	}
	if next.Phase != PhaseAwaitingSelection {
		t.Errorf("phase changed to %s", next.Phase)
	}
}

func TestFinishSelection(t *testing.T) {
	s := NewState(DefaultRules(), 0, false)
	s, _ = rollAndResolve(t, s, 1, 5, 2, 3, 6, 6)
	s, _ = mustApply(t, s, Finish{})
	if s.Phase != PhaseAwaitingBankOrContinue {
		t.Fatalf("phase = %s, want AwaitingBankOrContinue", s.Phase)
	}
	if _, _, err := Apply(s, SelectDie{ID: 3}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("select after finish = %v, want ErrInvalidAction", err)
	}
	if _, _, err := Apply(s, Finish{}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("double finish = %v, want ErrInvalidAction", err)
	}
}

func TestRollRejectedOnWrongCount(t *testing.T) {
	s := NewState(DefaultRules(), 0, false)
	next, events, err := Apply(s, Roll{Values: []int{1, 2, 3}})
	if !errors.Is(err, ErrRollRejected) {
		t.Fatalf("err = %v, want ErrRollRejected", err)
	}
	if next.Phase != PhaseAwaitingRoll || events != nil {
		t.Error("rejected roll changed state")
	}
	if !next.Phase.CanRoll() {
		t.Error("roll must stay enabled after rejection")
	}
}

func TestInvariantViolationOnBadValues(t *testing.T) {
	s := NewState(DefaultRules(), 0, false)
	_, _, err := Apply(s, Roll{Values: []int{1, 2, 3, 4, 5, 7}})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("err = %v, want ErrInvariantViolation", err)
	}
}

func TestValidate(t *testing.T) {
	good := NewState(DefaultRules(), 0, false)
	if err := Validate(good); err != nil {
		t.Errorf("Validate(new state) = %v", err)
	}

	bad := good
	bad.LockedScore = -50
	if !errors.Is(Validate(bad), ErrInvariantViolation) {
		t.Error("negative score not detected")
	}

	bad = good
	bad.Phase = PhaseRolling
	bad.Dice = []dice.Die{{ID: 1, Value: 1}, {ID: 1, Value: 2}}
	if !errors.Is(Validate(bad), ErrInvariantViolation) {
		t.Error("duplicate ids not detected")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := NewState(DefaultRules(), 0, false)
	s, _ = rollAndResolve(t, s, 1, 5, 2, 3, 6, 6)
	before := s.Clone()

	if _, _, err := Apply(s, Roll{Values: []int{2, 2, 2, 3}}); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	for i := range s.Dice {
		if s.Dice[i] != before.Dice[i] {
			t.Fatalf("input die %d mutated: %+v vs %+v", i, s.Dice[i], before.Dice[i])
		}
	}
}

func TestResolveOutsideRolling(t *testing.T) {
	s := NewState(DefaultRules(), 0, false)
	if _, _, err := Apply(s, Resolve{}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("resolve without roll = %v, want ErrInvalidAction", err)
	}
}

func TestForfeit(t *testing.T) {
	s := NewState(DefaultRules(), 2000, true)
	lost, events := mustApply(t, s, Forfeit{})
	if lost.Phase != PhaseTurnLost || len(events) != 1 || events[0].Type != EvtTurnLost {
		t.Fatalf("forfeit before rolling: phase %s, events %v", lost.Phase, events)
	}
	if lost.BankedTotal != 2000 {
		t.Errorf("banked total = %d, want 2000", lost.BankedTotal)
	}

	s, _ = rollAndResolve(t, s, 1, 5, 2, 3, 6, 6)
	s, events = mustApply(t, s, Forfeit{})
	if s.Phase != PhaseTurnLost || s.TurnTotal() != 0 {
		t.Errorf("forfeit mid-turn: phase %s, turn total %d", s.Phase, s.TurnTotal())
	}
	if events[0].TurnTotal != 150 {
		t.Errorf("lost turn total = %d, want 150", events[0].TurnTotal)
	}

	if _, _, err := Apply(s, Forfeit{}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("forfeit after the turn ended = %v, want ErrInvalidAction", err)
	}
}
