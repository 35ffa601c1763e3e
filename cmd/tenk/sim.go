package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tenthousand/internal/config"
	"github.com/vovakirdan/tui-tenthousand/internal/sim"
)

var (
	flagSimGames    int
	flagSimParallel int
	flagSimTiers    string
	flagSimRecord   bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run bot-vs-bot games and report win rates",
	Long: `Play many headless games between bots and print how often each seat won.

Each entry in --tiers takes one seat. Seats rotate between games so every
tier opens the same number of games. Rules and bot thresholds come from the
config file, so sim is the way to tune a tier before playing it.

Examples:
  tenk sim
  tenk sim --games 5000 --parallel 8
  tenk sim --tiers expert,expert --seed 42
  tenk sim --tiers beginner,expert --record`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimGames, "games", 500, "Number of games to play")
	simCmd.Flags().IntVar(&flagSimParallel, "parallel", runtime.NumCPU(), "Games played concurrently")
	simCmd.Flags().StringVar(&flagSimTiers, "tiers", "beginner,intermediate,expert", "Comma-separated bot tiers, one seat each")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save every simulated game to the database")
}

func runSim(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger("tenk-sim")
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tiers, err := parseTiers(flagSimTiers)
	if err != nil {
		return err
	}

	opts := sim.Options{
		Games:    flagSimGames,
		Parallel: flagSimParallel,
		Tiers:    tiers,
		Seed:     seed(),
		Config:   cfg,
		Logger:   logger,
	}
	if flagSimRecord {
		store := openStore(logger)
		if store != nil {
			defer store.Close()
			opts.Recorder = store
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	started := time.Now()
	report, err := sim.Run(ctx, opts)
	if err != nil {
		return err
	}

	printReport(report, cfg, opts.Seed, time.Since(started))
	return nil
}

// parseTiers splits a comma-separated tier list.
func parseTiers(s string) ([]config.Difficulty, error) {
	var tiers []config.Difficulty
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := config.ParseDifficulty(part)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, d)
	}
	if len(tiers) == 0 {
		return nil, errors.New("--tiers needs at least one tier")
	}
	return tiers, nil
}

func printReport(r sim.Report, cfg config.Config, seed int64, elapsed time.Duration) {
	fmt.Printf("Simulated %d games to %d (entry %d), seed %d, in %s\n",
		r.Games, cfg.Game.TargetScore, cfg.Game.EntryThreshold, seed, elapsed.Round(time.Millisecond))
	fmt.Println()

	// Print header
	fmt.Printf("  %-16s  %-8s  %s\n", "Seat", "Wins", "Win rate")
	fmt.Printf("  %-16s  %-8s  %s\n", "----", "----", "--------")

	for i, s := range r.Seats {
		fmt.Printf("  %-16s  %-8d  %5.1f%%\n", s.Name, s.Wins, r.WinRate(i))
	}

	fmt.Println()
	fmt.Printf("Average game length: %.1f rounds\n", r.AvgRounds())
	if r.Stalled > 0 {
		fmt.Printf("Stalled games: %d\n", r.Stalled)
	}
}
