// Package sim plays headless bot-only games to compare difficulty tiers.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-tenthousand/internal/config"
	"github.com/vovakirdan/tui-tenthousand/internal/dice"
	"github.com/vovakirdan/tui-tenthousand/internal/game"
)

// ErrStalled is reported when a game stops without a winner.
var ErrStalled = errors.New("sim: game stalled")

// Options configures a simulation run.
type Options struct {
	Games    int
	Parallel int                 // Concurrent games; below 1 means one
	Tiers    []config.Difficulty // One bot seat per entry
	Seed     int64               // Game i rolls with Seed+i
	Config   config.Config       // Rules and bot thresholds
	Recorder game.Recorder       // Optional, shared by every game
	Logger   *log.Logger
}

// TierStats aggregates results for one seat across all games.
type TierStats struct {
	Name       string
	Difficulty config.Difficulty
	Wins       int
}

// Report is the outcome of a run.
type Report struct {
	Games       int
	Stalled     int
	TotalRounds int
	Seats       []TierStats
}

// WinRate returns the share of finished games won by seat i, in percent.
func (r Report) WinRate(i int) float64 {
	finished := r.Games - r.Stalled
	if finished == 0 {
		return 0
	}
	return float64(r.Seats[i].Wins) * 100 / float64(finished)
}

// AvgRounds returns the mean number of rounds per finished game.
func (r Report) AvgRounds() float64 {
	finished := r.Games - r.Stalled
	if finished == 0 {
		return 0
	}
	return float64(r.TotalRounds) / float64(finished)
}

type outcome struct {
	winner  int // Seat index into Options.Tiers, -1 when stalled
	rounds  int
	stalled bool
}

// Run plays opts.Games games and tallies the winners.
// Seats rotate between games so no tier always rolls first.
func Run(ctx context.Context, opts Options) (Report, error) {
	if opts.Games < 1 {
		return Report{}, fmt.Errorf("sim: games must be positive, got %d", opts.Games)
	}
	if len(opts.Tiers) == 0 {
		return Report{}, errors.New("sim: at least one tier is required")
	}
	if len(opts.Tiers) > config.MaxPlayers {
		return Report{}, fmt.Errorf("sim: at most %d seats, got %d", config.MaxPlayers, len(opts.Tiers))
	}
	for _, d := range opts.Tiers {
		if !d.Valid() {
			return Report{}, fmt.Errorf("sim: unknown tier %q", d)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	results := make([]outcome, opts.Games)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Parallel, 1))
	for i := range opts.Games {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := playOne(i, opts, logger)
			if err != nil {
				return fmt.Errorf("sim: game %d: %w", i, err)
			}
			results[i] = res
			if n := done.Add(1); n%100 == 0 {
				logger.Debug("progress", "done", n, "of", opts.Games)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Games: opts.Games, Seats: make([]TierStats, len(opts.Tiers))}
	for i, d := range opts.Tiers {
		report.Seats[i] = TierStats{Name: seatName(i, d), Difficulty: d}
	}
	for _, res := range results {
		if res.stalled {
			report.Stalled++
			continue
		}
		report.Seats[res.winner].Wins++
		report.TotalRounds += res.rounds
	}
	return report, nil
}

// playOne runs game i to completion on an immediate scheduler.
func playOne(i int, opts Options, logger *log.Logger) (outcome, error) {
	n := len(opts.Tiers)
	cfg := opts.Config
	cfg.Players = make([]config.PlayerConfig, n)
	seatOf := make(map[string]int, n)
	for j := range n {
		k := (i + j) % n
		name := seatName(k, opts.Tiers[k])
		cfg.Players[j] = config.PlayerConfig{Name: name, Bot: opts.Tiers[k]}
		seatOf[name] = k
	}

	s, err := game.FromConfig(cfg, game.Options{
		Roller:    dice.NewRandRoller(opts.Seed + int64(i)),
		Scheduler: game.NewImmediateScheduler(),
		Recorder:  opts.Recorder,
		Logger:    logger,
	})
	if err != nil {
		return outcome{}, err
	}

	// The immediate scheduler drives every bot step before Start returns.
	if err := s.Start(); err != nil {
		return outcome{}, err
	}
	winner, ok := s.Winner()
	if !ok {
		logger.Warn("game stalled", "game", s.ID(), "round", s.Round(), "err", ErrStalled)
		s.Abandon()
		return outcome{winner: -1, stalled: true}, nil
	}
	return outcome{winner: seatOf[winner.Name], rounds: s.Round()}, nil
}

func seatName(i int, d config.Difficulty) string {
	return fmt.Sprintf("%s %d", d.Title(), i+1)
}
