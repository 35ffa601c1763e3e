package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tenthousand/internal/bot"
)

var botsCmd = &cobra.Command{
	Use:   "bots",
	Short: "List bot difficulty tiers",
	Long:  `Shows every registered bot tier with the thresholds from the config.`,
	Args:  cobra.NoArgs,
	RunE:  runBots,
}

func runBots(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tiers := bot.List()
	if len(tiers) == 0 {
		fmt.Println("No bots available.")
		return nil
	}

	fmt.Println("Bot tiers:")
	fmt.Println()

	// Print header
	fmt.Printf("  %-12s  %-7s  %-8s  %-10s  %s\n", "Tier", "Bank at", "Min dice", "Near guard", "Chase (gap/bonus)")
	fmt.Printf("  %-12s  %-7s  %-8s  %-10s  %s\n", "----", "-------", "--------", "----------", "-----------------")

	for _, info := range tiers {
		tier, _ := cfg.Bots.Tier(info.Difficulty)
		fmt.Printf("  %-12s  %-7d  %-8d  %-10d  %d/%d\n",
			info.Difficulty, tier.BankAt, tier.MinDice, tier.NearTargetGuard, tier.ChaseGap, tier.ChaseBonus)
	}

	fmt.Println()
	fmt.Println("Run 'tenk play --difficulty <tier>' to play against a tier.")
	return nil
}
