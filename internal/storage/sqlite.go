// Package storage provides SQLite-based persistence for completed match
// summaries. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies. Persistence is best-effort: callers log failures and keep
// serving matches.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"ws-arcade/internal/arena"
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchRecord is a persisted match summary plus its database identity.
type MatchRecord struct {
	ID           int64
	Game         string
	Code         string
	Player1Name  string
	Player2Name  string
	Player1Score int
	Player2Score int
	WinnerName   string // Empty on draw or abandonment
	Status       string
	Turns        int
	StartedAt    time.Time
	CompletedAt  time.Time
	CreatedAt    time.Time
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

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
		CREATE TABLE IF NOT EXISTS match_summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game TEXT NOT NULL,
			code TEXT NOT NULL,
			player1_name TEXT NOT NULL,
			player2_name TEXT NOT NULL,
			player1_score INTEGER NOT NULL DEFAULT 0,
			player2_score INTEGER NOT NULL DEFAULT 0,
			winner_name TEXT,
			status TEXT NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME,
			completed_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_match_summaries_game ON match_summaries(game);
		CREATE INDEX IF NOT EXISTS idx_match_summaries_code ON match_summaries(code);
		CREATE INDEX IF NOT EXISTS idx_match_summaries_recent ON match_summaries(created_at DESC);
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

// SaveMatchSummary implements arena.SummaryStore.
func (s *Store) SaveMatchSummary(summary arena.MatchSummary) error {
	_, err := s.db.Exec(
		`INSERT INTO match_summaries
		 (game, code, player1_name, player2_name, player1_score, player2_score,
		  winner_name, status, turns, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.Game,
		summary.Code,
		summary.Player1Name,
		summary.Player2Name,
		summary.Player1Score,
		summary.Player2Score,
		summary.WinnerName,
		summary.Status,
		summary.Turns,
		summary.StartedAt.UTC().Format(timeLayout),
		summary.CompletedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save match summary: %w", err)
	}
	return nil
}

// RecentMatches retrieves the most recently completed matches across all
// games, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		selectColumns+`
		 FROM match_summaries
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recent matches: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// MatchesByGame retrieves completed matches for a single game, newest first.
func (s *Store) MatchesByGame(game string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		selectColumns+`
		 FROM match_summaries
		 WHERE game = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		game, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches by game: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// MatchByCode retrieves the most recent summary recorded under a match code.
// Returns nil when no match with that code was ever completed.
func (s *Store) MatchByCode(code string) (*MatchRecord, error) {
	rows, err := s.db.Query(
		selectColumns+`
		 FROM match_summaries
		 WHERE code = ?
		 ORDER BY id DESC
		 LIMIT 1`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match by code: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// GameStats contains aggregated match statistics for a single game.
type GameStats struct {
	Game       string
	Matches    int
	Draws      int
	Abandoned  int
	LastPlayed time.Time
}

// StatsByGame aggregates completed-match counts per game.
func (s *Store) StatsByGame() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game,
		        COUNT(*),
		        SUM(CASE WHEN winner_name = '' AND status != 'abandoned' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN status = 'abandoned' THEN 1 ELSE 0 END),
		        MAX(created_at)
		 FROM match_summaries
		 GROUP BY game`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var g GameStats
		var lastPlayed any
		if err := rows.Scan(&g.Game, &g.Matches, &g.Draws, &g.Abandoned, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		g.LastPlayed = parseTime(lastPlayed)
		stats[g.Game] = &g
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

const timeLayout = "2006-01-02 15:04:05"

const selectColumns = `SELECT id, game, code, player1_name, player2_name,
		        player1_score, player2_score, winner_name, status, turns,
		        started_at, completed_at, created_at`

func scanRecords(rows *sql.Rows) ([]MatchRecord, error) {
	var records []MatchRecord
	for rows.Next() {
		var r MatchRecord
		var winnerName sql.NullString
		var startedAt, completedAt, createdAt any

		if err := rows.Scan(
			&r.ID,
			&r.Game,
			&r.Code,
			&r.Player1Name,
			&r.Player2Name,
			&r.Player1Score,
			&r.Player2Score,
			&winnerName,
			&r.Status,
			&r.Turns,
			&startedAt,
			&completedAt,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if winnerName.Valid {
			r.WinnerName = winnerName.String
		}
		r.StartedAt = parseTime(startedAt)
		r.CompletedAt = parseTime(completedAt)
		r.CreatedAt = parseTime(createdAt)

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// parseTime handles the driver returning either time.Time or the textual
// DATETIME form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Ensure Store implements the persistence boundary.
var _ arena.SummaryStore = (*Store)(nil)
