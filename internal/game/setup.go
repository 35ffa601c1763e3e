package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-tenthousand/internal/bot"
	"github.com/vovakirdan/tui-tenthousand/internal/config"
	"github.com/vovakirdan/tui-tenthousand/internal/turn"
)

// FromConfig creates a session for the players and rules in cfg.
// Rules and delays in opts are replaced by the configured ones.
func FromConfig(cfg config.Config, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seats := make([]Seat, 0, len(cfg.Players))
	for _, p := range cfg.Players {
		seat := Seat{ID: uuid.NewString(), Name: p.Name, Difficulty: p.Bot}
		if p.IsBot() {
			pol, err := bot.Create(p.Bot, cfg.Bots)
			if err != nil {
				return nil, fmt.Errorf("game: seat %q: %w", p.Name, err)
			}
			seat.Policy = pol
		}
		seats = append(seats, seat)
	}

	opts.Rules = turn.Rules{Target: cfg.Game.TargetScore, EntryThreshold: cfg.Game.EntryThreshold}
	opts.RollDelay = cfg.Timing.RollDelay
	opts.ThinkDelay = cfg.Timing.BotThinkDelay
	return NewSession(opts, seats)
}

// PoliciesFrom resolves bot policies against the configured tiers, for Restore.
func PoliciesFrom(bots config.BotsConfig) PolicyFunc {
	return func(d config.Difficulty) (bot.Policy, error) {
		return bot.Create(d, bots)
	}
}
