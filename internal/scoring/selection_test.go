package scoring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/vovakirdan/tui-tenthousand/internal/dice"
)

func TestBestSelection(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   []int // selected die IDs
	}{
		{"straight takes all", []int{3, 1, 4, 6, 5, 2}, []int{1, 2, 3, 4, 5, 6}},
		{"three pairs takes all", []int{2, 4, 2, 3, 4, 3}, []int{1, 2, 3, 4, 5, 6}},
		{"triple ones only", []int{1, 1, 1, 2, 3, 4}, []int{1, 2, 3}},
		{"triple and singles", []int{2, 2, 2, 1, 5, 6}, []int{1, 2, 3, 4, 5}},
		{"two loose fives", []int{5, 3, 5, 4, 6, 2}, []int{1, 3}},
		{"four of a kind taken whole", []int{6, 6, 3, 6, 6, 2}, []int{1, 2, 4, 5}},
		{"two triples", []int{3, 4, 3, 4, 3, 4}, []int{1, 2, 3, 4, 5, 6}},
		{"nothing scores", []int{2, 3, 4, 6, 2, 3}, nil},
		{"single remaining die", []int{5}, []int{1}},
		{"single non-scoring die", []int{4}, nil},
		{"five ones plus five", []int{1, 1, 1, 1, 1, 5}, []int{1, 2, 3, 4, 5, 6}},
		{"four plus pair", []int{2, 2, 2, 2, 3, 3}, []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BestSelection(dice.Fresh(tt.values))
			var ids []int
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("BestSelection(%v) ids mismatch (-want +got):\n%s", tt.values, diff)
			}
		})
	}
}

func TestBestSelectionKeepsLockedDiceOut(t *testing.T) {
	// Locked dice are never passed in; only the unlocked subset is.
	ds := []dice.Die{{ID: 4, Value: 1}, {ID: 6, Value: 3}}
	got := BestSelection(ds)
	if len(got) != 1 || got[0].ID != 4 {
		t.Errorf("BestSelection() = %v, want die 4", got)
	}
}

func TestHasScoringDice(t *testing.T) {
	if HasScoringDice(dice.Fresh([]int{2, 3, 4, 6, 6, 2})) {
		t.Error("expected no scoring dice")
	}
	if !HasScoringDice(dice.Fresh([]int{2, 3, 4, 6, 6, 5})) {
		t.Error("expected scoring dice")
	}
	if HasScoringDice(nil) {
		t.Error("empty dice cannot score")
	}
}

func drawDice(t *rapid.T) []dice.Die {
	values := rapid.SliceOfN(rapid.IntRange(1, dice.Sides), 1, dice.Count).Draw(t, "values")
	return dice.Fresh(values)
}

func TestSelectionOnlyScoringDiceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ds := drawDice(t)
		sel := BestSelection(ds)

		c, n := countValues(dice.Values(ds))
		if len(sel) == len(ds) && (isStraight(c, n) || isThreePairs(c, n)) {
			return
		}

		selCounts, _ := countValues(dice.Values(sel))
		for _, d := range sel {
			if d.Value == 1 || d.Value == 5 {
				continue
			}
			if selCounts[d.Value] < 3 {
				t.Fatalf("selected non-scoring die %v from %v", d, ds)
			}
		}
	})
}

func TestSelectionScoresEverythingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ds := drawDice(t)
		sel := BestSelection(ds)

		all := ScoreDice(ds)
		picked := ScoreDice(sel)
		if picked.Points != all.Points {
			t.Fatalf("selection %v scores %d, full roll %v scores %d", sel, picked.Points, ds, all.Points)
		}
		if (len(sel) > 0) != (all.Points > 0) {
			t.Fatalf("selection emptiness disagrees with score for %v", ds)
		}
	})
}

func TestScoreNeverNegativeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ds := drawDice(t)
		r := ScoreDice(ds)
		if r.Points < 0 {
			t.Fatalf("negative score %d for %v", r.Points, ds)
		}
		if (r.Points == 0) != (r.Category == CategoryNone) {
			t.Fatalf("category %v inconsistent with points %d", r.Category, r.Points)
		}
		if again := ScoreDice(ds); again != r {
			t.Fatalf("rescoring changed result: %v vs %v", r, again)
		}
	})
}
