package config

import (
	"fmt"
	"strings"
)

// Difficulty represents a named bot tier.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyExpert       Difficulty = "expert"
)

// Difficulties lists every tier from weakest to strongest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyExpert}
}

// Valid reports whether d names a known tier.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyExpert:
		return true
	default:
		return false
	}
}

// Title returns the display name of the tier.
func (d Difficulty) Title() string {
	if d == "" {
		return "Human"
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// ParseDifficulty accepts a tier name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("config: unknown difficulty %q (want beginner, intermediate or expert)", s)
	}
	return d, nil
}

var botNames = []string{"Dot", "Pip", "Hex", "Ace", "Vex", "Nib", "Zed", "Orb"}

// ApplyDifficultyPreset sets every bot seat to the given tier.
func ApplyDifficultyPreset(cfg *Config, d Difficulty) {
	for i := range cfg.Players {
		if cfg.Players[i].IsBot() {
			cfg.Players[i].Bot = d
		}
	}
}

// ApplyBotCount replaces the bot seats with n bots of the given tier.
// Human seats keep their order at the head of the table.
func ApplyBotCount(cfg *Config, n int, d Difficulty) {
	var players []PlayerConfig
	for _, p := range cfg.Players {
		if !p.IsBot() {
			players = append(players, p)
		}
	}
	for i := 0; i < n; i++ {
		name := botNames[i%len(botNames)]
		if i >= len(botNames) {
			name = fmt.Sprintf("%s %d", name, i/len(botNames)+1)
		}
		players = append(players, PlayerConfig{Name: name, Bot: d})
	}
	cfg.Players = players
}
