// Package config provides YAML-based configuration loading and
// bot difficulty management for tenk.
package config

import (
	"errors"
	"fmt"
	"time"
)

// MaxPlayers is the largest table a game can seat.
const MaxPlayers = 8

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config contains all configuration for a game of 10,000.
type Config struct {
	Game    GameConfig     `yaml:"game"`
	Timing  TimingConfig   `yaml:"timing"`
	Bots    BotsConfig     `yaml:"bots"`
	Players []PlayerConfig `yaml:"players"`
}

// GameConfig defines the scoring rules of a game.
type GameConfig struct {
	TargetScore    int `yaml:"target_score"`
	EntryThreshold int `yaml:"entry_threshold"` // Points needed in one turn to get on the board
}

// TimingConfig defines presentation delays. The engine itself never waits.
type TimingConfig struct {
	RollDelay     time.Duration `yaml:"roll_delay"`      // Between a roll and its resolution
	BotThinkDelay time.Duration `yaml:"bot_think_delay"` // Before each bot decision
}

// BotTier holds the risk thresholds of one difficulty tier.
type BotTier struct {
	BankAt          int `yaml:"bank_at"`           // Keep rolling below this turn total
	MinDice         int `yaml:"min_dice"`          // Keep rolling with at least this many dice (0 = never push)
	NearTargetGuard int `yaml:"near_target_guard"` // Bank anything once this close to the target
	ChaseGap        int `yaml:"chase_gap"`         // Leader advantage that triggers chasing
	ChaseBonus      int `yaml:"chase_bonus"`       // Added to BankAt while chasing
}

// BotsConfig holds the thresholds for each difficulty.
type BotsConfig struct {
	Beginner     BotTier `yaml:"beginner"`
	Intermediate BotTier `yaml:"intermediate"`
	Expert       BotTier `yaml:"expert"`
}

// Tier returns the thresholds configured for a difficulty.
func (b BotsConfig) Tier(d Difficulty) (BotTier, bool) {
	switch d {
	case DifficultyBeginner:
		return b.Beginner, true
	case DifficultyIntermediate:
		return b.Intermediate, true
	case DifficultyExpert:
		return b.Expert, true
	default:
		return BotTier{}, false
	}
}

// PlayerConfig describes one seat. An empty Bot means a human player.
type PlayerConfig struct {
	Name string     `yaml:"name"`
	Bot  Difficulty `yaml:"bot,omitempty"`
}

// IsBot reports whether the seat is played by a bot.
func (p PlayerConfig) IsBot() bool {
	return p.Bot != ""
}

// Validate checks the configuration for values the engine cannot play with.
func (c Config) Validate() error {
	if c.Game.TargetScore <= 0 {
		return fmt.Errorf("%w: target_score must be positive, got %d", ErrInvalidConfig, c.Game.TargetScore)
	}
	if c.Game.EntryThreshold < 0 {
		return fmt.Errorf("%w: entry_threshold must not be negative, got %d", ErrInvalidConfig, c.Game.EntryThreshold)
	}
	if c.Game.EntryThreshold >= c.Game.TargetScore {
		return fmt.Errorf("%w: entry_threshold %d must be below target_score %d",
			ErrInvalidConfig, c.Game.EntryThreshold, c.Game.TargetScore)
	}
	if c.Timing.RollDelay < 0 || c.Timing.BotThinkDelay < 0 {
		return fmt.Errorf("%w: timing delays must not be negative", ErrInvalidConfig)
	}
	if len(c.Players) == 0 {
		return fmt.Errorf("%w: at least one player is required", ErrInvalidConfig)
	}
	if len(c.Players) > MaxPlayers {
		return fmt.Errorf("%w: at most %d players, got %d", ErrInvalidConfig, MaxPlayers, len(c.Players))
	}
	for i, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalidConfig, i+1)
		}
		if p.IsBot() && !p.Bot.Valid() {
			return fmt.Errorf("%w: player %q has unknown bot difficulty %q", ErrInvalidConfig, p.Name, p.Bot)
		}
	}
	return nil
}
