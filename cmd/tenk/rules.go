package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tenthousand/internal/scoring"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the rules and the scoring table",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

// scoringExamples are shown with the points the engine gives them.
var scoringExamples = []struct {
	label string
	dice  []int
}{
	{"Single 1", []int{1}},
	{"Single 5", []int{5}},
	{"Three 1s", []int{1, 1, 1}},
	{"Three 2s", []int{2, 2, 2}},
	{"Three 3s", []int{3, 3, 3}},
	{"Three 4s", []int{4, 4, 4}},
	{"Three 5s", []int{5, 5, 5}},
	{"Three 6s", []int{6, 6, 6}},
	{"Four 2s", []int{2, 2, 2, 2}},
	{"Five 2s", []int{2, 2, 2, 2, 2}},
	{"Six 2s", []int{2, 2, 2, 2, 2, 2}},
	{"Straight 1-6", []int{1, 2, 3, 4, 5, 6}},
	{"Three pairs", []int{2, 2, 3, 3, 4, 4}},
}

func runRules(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Ten Thousand")
	fmt.Println()
	fmt.Println("  Roll six dice. Every roll must score or the turn is lost.")
	fmt.Println("  The scoring dice are set aside; roll the rest or bank the turn.")
	fmt.Println("  If every die has scored (hot dice), all six roll again.")
	fmt.Printf("  Your first bank needs at least %d points in one turn.\n", cfg.Game.EntryThreshold)
	fmt.Printf("  The first player to bank exactly %d wins; going over forfeits the turn.\n", cfg.Game.TargetScore)
	fmt.Println()

	// Print header
	fmt.Printf("  %-14s  %-14s  %s\n", "Combination", "Dice", "Points")
	fmt.Printf("  %-14s  %-14s  %s\n", "-----------", "----", "------")
	for _, ex := range scoringExamples {
		res := scoring.Score(ex.dice)
		fmt.Printf("  %-14s  %-14s  %d\n", ex.label, fmt.Sprint(ex.dice), res.Points)
	}

	fmt.Println()
	fmt.Println("  Four, five and six of a kind double the triple for each extra die.")
	return nil
}
