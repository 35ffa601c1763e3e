package bot

import (
	"testing"

	"github.com/vovakirdan/tui-tenthousand/internal/config"
)

func view(turnTotal, banked int, entered bool, diceToRoll int) View {
	return View{
		TurnTotal:      turnTotal,
		BankedTotal:    banked,
		HasEntered:     entered,
		DiceToRoll:     diceToRoll,
		Target:         10000,
		EntryThreshold: 500,
	}
}

func TestThresholdPolicyDecide(t *testing.T) {
	bots := config.Default().Bots
	expert := NewThresholdPolicy("Expert", bots.Expert)
	beginner := NewThresholdPolicy("Beginner", bots.Beginner)

	chasing := view(700, 2000, true, 2)
	chasing.LeaderTotal = 6000

	tests := []struct {
		name   string
		policy Policy
		v      View
		want   Decision
	}{
		{"below entry keeps rolling", beginner, view(450, 0, false, 1), DecisionRoll},
		{"nothing to bank", expert, view(0, 3000, true, 6), DecisionRoll},
		{"exact target banks", expert, view(500, 9500, true, 6), DecisionBank},
		{"too close to score again", expert, view(100, 9860, true, 5), DecisionBank},
		{"near target guard", expert, view(100, 9000, true, 5), DecisionBank},
		{"beginner has no guard", beginner, view(100, 9000, true, 5), DecisionRoll},
		{"below bank-at rolls", expert, view(600, 3000, true, 1), DecisionRoll},
		{"enough dice pushes", expert, view(800, 3000, true, 3), DecisionRoll},
		{"few dice banks", expert, view(800, 3000, true, 2), DecisionBank},
		{"hot dice pushes", expert, view(2000, 3000, true, 6), DecisionRoll},
		{"beginner never pushes", beginner, view(400, 3000, true, 6), DecisionBank},
		{"chasing raises threshold", expert, chasing, DecisionRoll},
		{"entry reached banks", beginner, view(500, 0, false, 2), DecisionBank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Decide(tt.v); got != tt.want {
				t.Errorf("Decide(%+v) = %s, want %s", tt.v, got, tt.want)
			}
		})
	}
}

func TestPolicyNeverBanksIneligible(t *testing.T) {
	for _, info := range List() {
		p, err := Create(info.Difficulty, config.Default().Bots)
		if err != nil {
			t.Fatalf("Create(%s) failed: %v", info.Difficulty, err)
		}
		for total := 0; total < 500; total += 50 {
			if p.Decide(view(total, 0, false, 6)) == DecisionBank {
				t.Errorf("%s banked %d before entering", p.Name(), total)
			}
		}
	}
}

func TestRegistry(t *testing.T) {
	infos := List()
	if len(infos) != 3 {
		t.Fatalf("List() = %d tiers, want 3", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Difficulty >= infos[i].Difficulty {
			t.Error("List() not sorted")
		}
	}

	p, err := Create(config.DifficultyIntermediate, config.Default().Bots)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if p.Name() != "Intermediate" {
		t.Errorf("Name() = %q", p.Name())
	}
	tp, ok := p.(*ThresholdPolicy)
	if !ok || tp.Tier().BankAt != 500 {
		t.Errorf("unexpected policy %#v", p)
	}

	if _, err := Create("godlike", config.Default().Bots); err == nil {
		t.Error("expected error for unknown difficulty")
	}
	if !Exists(config.DifficultyExpert) || Exists("godlike") {
		t.Error("Exists() mismatch")
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register(config.DifficultyExpert, func(config.BotsConfig) Policy { return nil })
}
