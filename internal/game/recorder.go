package game

import (
	"context"

	"github.com/vovakirdan/tui-tenthousand/internal/config"
)

// Recorder persists game progress. Calls are best-effort: the session logs
// failures and keeps playing.
type Recorder interface {
	CreateGame(ctx context.Context, snap Snapshot) error
	SaveScore(ctx context.Context, gameID, playerID string, round, turnScore, totalScore int) error
	SaveProgress(ctx context.Context, gameID string, round, currentIndex int) error
	CompleteGame(ctx context.Context, gameID, winnerID string) error
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) CreateGame(context.Context, Snapshot) error                     { return nil }
func (NopRecorder) SaveScore(context.Context, string, string, int, int, int) error { return nil }
func (NopRecorder) SaveProgress(context.Context, string, int, int) error           { return nil }
func (NopRecorder) CompleteGame(context.Context, string, string) error             { return nil }

// PlayerView is the read-only projection of one seat.
type PlayerView struct {
	ID          string
	Name        string
	IsBot       bool
	Difficulty  config.Difficulty
	BankedTotal int
	HasEntered  bool
}

// Snapshot is everything needed to resume a game between turns.
type Snapshot struct {
	GameID         string
	Target         int
	EntryThreshold int
	Round          int
	CurrentIndex   int
	WinnerID       string
	Over           bool
	Players        []PlayerView
}

// PlayerTotal is one entry of a game's per-player score stream.
type PlayerTotal struct {
	PlayerID string
	Name     string
	Total    int
	Turns    int
}
