// Package storage provides SQLite-based persistence for games of 10,000.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-tenthousand/internal/config"
	"github.com/vovakirdan/tui-tenthousand/internal/game"
)

// ErrNotFound is returned when a game does not exist.
var ErrNotFound = errors.New("storage: not found")

// Game statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

var _ game.Recorder = (*Store)(nil)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// GameSummary is one row of the recent games list.
type GameSummary struct {
	ID        string
	Status    string
	Round     int
	Players   int
	Winner    string // Empty while the game is active
	TopTotal  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaderEntry aggregates finished games by player name.
type LeaderEntry struct {
	Name      string
	Games     int
	Wins      int
	BestTotal int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Foreign keys are off by default in SQLite; deletes rely on the cascades.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			target INTEGER NOT NULL,
			entry_threshold INTEGER NOT NULL,
			round INTEGER NOT NULL DEFAULT 1,
			current_index INTEGER NOT NULL DEFAULT 0,
			winner_id TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_updated ON games(updated_at DESC);

		CREATE TABLE IF NOT EXISTS game_players (
			game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			player_id TEXT NOT NULL,
			seat INTEGER NOT NULL,
			name TEXT NOT NULL,
			is_bot INTEGER NOT NULL DEFAULT 0,
			difficulty TEXT NOT NULL DEFAULT '',
			total INTEGER NOT NULL DEFAULT 0,
			has_entered INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (game_id, player_id)
		);
		CREATE INDEX IF NOT EXISTS idx_game_players_name ON game_players(name);

		CREATE TABLE IF NOT EXISTS turn_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			player_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			turn_score INTEGER NOT NULL,
			total_score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_turn_scores_game ON turn_scores(game_id, player_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateGame records a new game and its seats.
func (s *Store) CreateGame(ctx context.Context, snap game.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO games (id, target, entry_threshold, round, current_index)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.GameID, snap.Target, snap.EntryThreshold, snap.Round, snap.CurrentIndex,
	); err != nil {
		return fmt.Errorf("storage: cannot create game %s: %w", snap.GameID, err)
	}

	for seat, p := range snap.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO game_players (game_id, player_id, seat, name, is_bot, difficulty, total, has_entered)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snap.GameID, p.ID, seat, p.Name, p.IsBot, string(p.Difficulty), p.BankedTotal, p.HasEntered,
		); err != nil {
			return fmt.Errorf("storage: cannot add player %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit game %s: %w", snap.GameID, err)
	}
	return nil
}

// SaveScore records one resolved turn and the player's new total.
func (s *Store) SaveScore(ctx context.Context, gameID, playerID string, round, turnScore, totalScore int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO turn_scores (game_id, player_id, round, turn_score, total_score)
		 VALUES (?, ?, ?, ?, ?)`,
		gameID, playerID, round, turnScore, totalScore,
	); err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE game_players
		 SET total = ?, has_entered = CASE WHEN ? > 0 THEN 1 ELSE has_entered END
		 WHERE game_id = ? AND player_id = ?`,
		totalScore, turnScore, gameID, playerID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update total: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: player %s in game %s", ErrNotFound, playerID, gameID)
	}

	if err := s.touch(ctx, tx, gameID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return nil
}

// SaveProgress records whose turn it is.
func (s *Store) SaveProgress(ctx context.Context, gameID string, round, currentIndex int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET round = ?, current_index = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		round, currentIndex, gameID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save progress: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return nil
}

// CompleteGame marks a game finished.
func (s *Store) CompleteGame(ctx context.Context, gameID, winnerID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET winner_id = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		winnerID, StatusCompleted, gameID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot complete game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return nil
}

// GameState loads the snapshot of a game.
func (s *Store) GameState(ctx context.Context, gameID string) (game.Snapshot, error) {
	snap := game.Snapshot{GameID: gameID}
	var (
		winner sql.NullString
		status string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT target, entry_threshold, round, current_index, winner_id, status
		 FROM games WHERE id = ?`,
		gameID,
	).Scan(&snap.Target, &snap.EntryThreshold, &snap.Round, &snap.CurrentIndex, &winner, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	if err != nil {
		return snap, fmt.Errorf("storage: cannot query game: %w", err)
	}
	snap.WinnerID = winner.String
	snap.Over = status == StatusCompleted

	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, name, is_bot, difficulty, total, has_entered
		 FROM game_players WHERE game_id = ? ORDER BY seat`,
		gameID,
	)
	if err != nil {
		return snap, fmt.Errorf("storage: cannot query players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p          game.PlayerView
			difficulty string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.IsBot, &difficulty, &p.BankedTotal, &p.HasEntered); err != nil {
			return snap, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.Difficulty = config.Difficulty(difficulty)
		snap.Players = append(snap.Players, p)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return snap, nil
}

// Scores streams the per-player totals of a game in seat order.
func (s *Store) Scores(ctx context.Context, gameID string) iter.Seq2[game.PlayerTotal, error] {
	return func(yield func(game.PlayerTotal, error) bool) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT p.player_id, p.name, p.total, COUNT(t.id)
			 FROM game_players p
			 LEFT JOIN turn_scores t ON t.game_id = p.game_id AND t.player_id = p.player_id
			 WHERE p.game_id = ?
			 GROUP BY p.player_id, p.name, p.total, p.seat
			 ORDER BY p.seat`,
			gameID,
		)
		if err != nil {
			yield(game.PlayerTotal{}, fmt.Errorf("storage: cannot query scores: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var pt game.PlayerTotal
			if err := rows.Scan(&pt.PlayerID, &pt.Name, &pt.Total, &pt.Turns); err != nil {
				yield(game.PlayerTotal{}, fmt.Errorf("storage: cannot scan row: %w", err))
				return
			}
			if !yield(pt, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(game.PlayerTotal{}, fmt.Errorf("storage: row iteration error: %w", err))
		}
	}
}

// RecentGames retrieves the most recently played games.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]GameSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.status, g.round, g.created_at, g.updated_at,
		        COUNT(p.player_id), COALESCE(MAX(p.total), 0),
		        COALESCE((SELECT w.name FROM game_players w
		                  WHERE w.game_id = g.id AND w.player_id = g.winner_id), '')
		 FROM games g
		 LEFT JOIN game_players p ON p.game_id = g.id
		 GROUP BY g.id
		 ORDER BY g.updated_at DESC, g.created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var games []GameSummary
	for rows.Next() {
		var (
			g                GameSummary
			created, updated any
		)
		if err := rows.Scan(&g.ID, &g.Status, &g.Round, &created, &updated, &g.Players, &g.TopTotal, &g.Winner); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		g.CreatedAt = parseTime(created)
		g.UpdatedAt = parseTime(updated)
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return games, nil
}

// Leaderboard ranks player names by wins across completed games.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.name,
		        COUNT(*),
		        SUM(CASE WHEN g.winner_id = p.player_id THEN 1 ELSE 0 END) AS wins,
		        MAX(p.total)
		 FROM game_players p
		 JOIN games g ON g.id = p.game_id
		 WHERE g.status = ?
		 GROUP BY p.name
		 ORDER BY wins DESC, MAX(p.total) DESC, p.name
		 LIMIT ?`,
		StatusCompleted, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderEntry
	for rows.Next() {
		var e LeaderEntry
		if err := rows.Scan(&e.Name, &e.Games, &e.Wins, &e.BestTotal); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// DeleteGame removes a game. Its seats and turn scores go with it.
func (s *Store) DeleteGame(ctx context.Context, gameID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot delete game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return nil
}

func (s *Store) touch(ctx context.Context, tx *sql.Tx, gameID string) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE games SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", gameID,
	); err != nil {
		return fmt.Errorf("storage: cannot touch game: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
