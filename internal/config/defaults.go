package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tenk.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration used when no YAML can be read.
func Default() Config {
	return Config{
		Game: GameConfig{
			TargetScore:    10000,
			EntryThreshold: 500,
		},
		Timing: TimingConfig{
			RollDelay:     600 * time.Millisecond,
			BotThinkDelay: 900 * time.Millisecond,
		},
		Bots: BotsConfig{
			Beginner: BotTier{
				BankAt: 350,
			},
			Intermediate: BotTier{
				BankAt:          500,
				MinDice:         4,
				NearTargetGuard: 500,
				ChaseGap:        2000,
				ChaseBonus:      250,
			},
			Expert: BotTier{
				BankAt:          650,
				MinDice:         3,
				NearTargetGuard: 1000,
				ChaseGap:        1500,
				ChaseBonus:      400,
			},
		},
		Players: []PlayerConfig{
			{Name: "You"},
			{Name: "Dot", Bot: DifficultyIntermediate},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
