// tenk is the dice game 10,000 in the terminal: race to exactly 10,000
// points against friends at the same keyboard or against bots.
//
// Usage:
//
//	tenk play               - Play a game in the terminal
//	tenk play --resume <id> - Continue an unfinished game
//	tenk sim                - Pit bot tiers against each other headlessly
//	tenk scores             - Show recent games and the leaderboard
//	tenk serve              - Start SSH server for remote play
//	tenk rules              - Print the scoring table
//	tenk bots               - List bot difficulty tiers
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.tenk, ./configs, built-in)
//	--db <path>         - Set database path (default: ~/.tenk/tenk.db)
//	--seed <value>      - Set RNG seed for reproducible games
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tenthousand/internal/config"
	"github.com/vovakirdan/tui-tenthousand/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tenk",
	Short: "Ten Thousand - the dice game, in your terminal",
	Long: `Ten Thousand is a push-your-luck dice game. Roll six dice, keep the
scoring ones, and bank your turn before a roll comes up empty.
The first player to bank exactly 10,000 points wins.

Available commands:
  play     - Play a game against friends or bots
  sim      - Run bot-vs-bot games and compare difficulty tiers
  scores   - View recent games and the leaderboard
  serve    - Start SSH server for remote play
  rules    - Print the scoring table
  bots     - List bot difficulty tiers

Examples:
  tenk play
  tenk play --bots 3 --difficulty expert
  tenk sim --games 1000
  tenk serve --ssh :2222
  tenk scores`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tenk/tenk.db", "Path to game database")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(botsCmd)
}

// newLogger builds the stderr logger at the --log-level level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadConfig reads the configuration from --config or the search path.
func loadConfig() (config.Config, error) {
	return config.Load(flagConfig)
}

// openStore opens the game database. A failure is logged and play continues
// without persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open game database, games will not be saved", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// seed returns --seed, or a time-based seed when it is zero.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
