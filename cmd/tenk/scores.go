package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tenthousand/internal/platform/tui"
	"github.com/vovakirdan/tui-tenthousand/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresTUI    bool
	flagScoresDelete bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game-id]",
	Short: "Show recent games and the leaderboard",
	Long: `Display the most recent games and the all-time leaderboard.
With a game ID, show the per-player totals of that game instead,
or remove the game and its scores with --delete.

Examples:
  tenk scores
  tenk scores --limit 25
  tenk scores --tui
  tenk scores 3f2a9c1e-...
  tenk scores --delete 3f2a9c1e-...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of games and leaderboard rows to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores interactively")
	scoresCmd.Flags().BoolVar(&flagScoresDelete, "delete", false, "Delete the given game")
}

func runScores(_ *cobra.Command, args []string) error {
	if flagScoresDelete && len(args) == 0 {
		return errors.New("--delete needs a game ID")
	}

	// Open game storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening game database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	if len(args) == 1 {
		if flagScoresDelete {
			return deleteGame(ctx, store, args[0])
		}
		return printGame(ctx, store, args[0])
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		return tui.RunScoreboard(store, width, height)
	}

	games, err := store.RecentGames(ctx, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving games: %w", err)
	}
	board, err := store.Leaderboard(ctx, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving leaderboard: %w", err)
	}

	fmt.Println("Recent games")
	fmt.Println()
	if len(games) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tenk play' to start the first one!")
		return nil
	}

	// Print header
	fmt.Printf("  %-36s  %-9s  %-5s  %-12s  %s\n", "ID", "Status", "Round", "Winner", "Updated")
	fmt.Printf("  %-36s  %-9s  %-5s  %-12s  %s\n", "--", "------", "-----", "------", "-------")
	for _, g := range games {
		winner := g.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Printf("  %-36s  %-9s  %-5d  %-12s  %s\n",
			g.ID, g.Status, g.Round, winner, g.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("Leaderboard")
	fmt.Println()
	if len(board) == 0 {
		fmt.Println("Nobody has won a game yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-5s  %-4s  %s\n", "Rank", "Player", "Games", "Wins", "Best")
	fmt.Printf("  %-4s  %-16s  %-5s  %-4s  %s\n", "----", "------", "-----", "----", "----")
	for i, e := range board {
		fmt.Printf("  %-4d  %-16s  %-5d  %-4d  %d\n", i+1, e.Name, e.Games, e.Wins, e.BestTotal)
	}
	return nil
}

// printGame prints the standing of one game.
func printGame(ctx context.Context, store *storage.Store, id string) error {
	snap, err := store.GameState(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no game with id %q", id)
	}
	if err != nil {
		return err
	}

	status := fmt.Sprintf("round %d, in progress", snap.Round)
	if snap.Over {
		status = fmt.Sprintf("finished in round %d", snap.Round)
	}
	fmt.Printf("Game %s - target %d - %s\n", snap.GameID, snap.Target, status)
	fmt.Println()

	fmt.Printf("  %-16s  %-6s  %s\n", "Player", "Turns", "Total")
	fmt.Printf("  %-16s  %-6s  %s\n", "------", "-----", "-----")
	for pt, err := range store.Scores(ctx, id) {
		if err != nil {
			return fmt.Errorf("reading scores: %w", err)
		}
		marker := ""
		if pt.PlayerID == snap.WinnerID {
			marker = "  winner"
		}
		fmt.Printf("  %-16s  %-6d  %d%s\n", pt.Name, pt.Turns, pt.Total, marker)
	}

	if !snap.Over {
		fmt.Println()
		fmt.Printf("Continue with: tenk play --resume %s\n", snap.GameID)
	}
	return nil
}

func deleteGame(ctx context.Context, store *storage.Store, id string) error {
	err := store.DeleteGame(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no game with id %q", id)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Deleted game %s\n", id)
	return nil
}
