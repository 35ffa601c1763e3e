package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tenthousand/internal/config"
	"github.com/vovakirdan/tui-tenthousand/internal/dice"
	"github.com/vovakirdan/tui-tenthousand/internal/game"
	"github.com/vovakirdan/tui-tenthousand/internal/platform/tui"
	"github.com/vovakirdan/tui-tenthousand/internal/storage"
)

var (
	flagResume     string
	flagDifficulty string
	flagBots       int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game of Ten Thousand in the terminal.

Players sharing the keyboard take turns; bots play on their own.

Controls:
  R/Space    - Roll the dice
  B          - Bank the turn total
  1-6        - Add a die to the selection
  Enter/N    - Pass the dice to the next player
  ?          - Show all keys
  Q/Ctrl+C   - Quit (the game can be resumed later)

Difficulty options:
  beginner      - Banks early, never chases the leader
  intermediate  - Pushes with 4+ dice left, chases when far behind
  expert        - Pushes with 3+ dice left, plays safe near the target

Examples:
  tenk play
  tenk play --bots 2 --difficulty beginner
  tenk play --difficulty expert
  tenk play --resume 3f2a9c1e-...`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagResume, "resume", "", "ID of an unfinished game to continue")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Set every bot to: beginner, intermediate, expert")
	playCmd.Flags().IntVar(&flagBots, "bots", -1, "Replace the configured bots with this many (-1 = keep config)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, err := newLogger("tenk")
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyPlayFlags(&cfg); err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	session, err := newPlaySession(cfg, store, logger)
	if err != nil {
		return err
	}
	logger.Info("starting game", "game", session.ID(), "resumed", flagResume != "")

	// Get terminal size for the initial layout
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if err := tui.Run(session, width, height); err != nil {
		return fmt.Errorf("running game: %w", err)
	}

	if !session.IsOver() {
		fmt.Printf("Game saved. Continue with: tenk play --resume %s\n", session.ID())
	}
	return nil
}

// applyPlayFlags applies --bots and --difficulty on top of the loaded config.
func applyPlayFlags(cfg *config.Config) error {
	difficulty := config.DifficultyIntermediate
	if flagDifficulty != "" {
		d, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			return err
		}
		difficulty = d
	}

	if flagBots >= 0 {
		config.ApplyBotCount(cfg, flagBots, difficulty)
	}
	if flagDifficulty != "" {
		config.ApplyDifficultyPreset(cfg, difficulty)
	}
	return cfg.Validate()
}

// newPlaySession creates a new game, or restores --resume from the store.
func newPlaySession(cfg config.Config, store *storage.Store, logger *log.Logger) (*game.Session, error) {
	opts := game.Options{
		Roller: dice.NewRandRoller(seed()),
		Logger: logger,
	}
	if store != nil {
		opts.Recorder = store
	}

	if flagResume == "" {
		return game.FromConfig(cfg, opts)
	}

	if store == nil {
		return nil, errors.New("cannot resume without the game database")
	}
	snap, err := store.GameState(context.Background(), flagResume)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no game with id %q; run 'tenk scores' to list games", flagResume)
	}
	if err != nil {
		return nil, err
	}

	opts.RollDelay = cfg.Timing.RollDelay
	opts.ThinkDelay = cfg.Timing.BotThinkDelay
	return game.Restore(snap, opts, game.PoliciesFrom(cfg.Bots))
}
