// Package storage persists practice scores and online battle results in
// SQLite. Uses the pure-Go modernc.org/sqlite driver to avoid CGO.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/CloudTigerx/BladeFighters-sub000/internal/multiplayer"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one recorded score.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// OnlineMatchResult is the settled outcome of one online battle.
type OnlineMatchResult struct {
	ID             int64
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string // empty on a draw or disconnect
	EndReason      string
	Duration       int // seconds
	CreatedAt      time.Time
}

// PlayerRecord aggregates a player's online battle history.
type PlayerRecord struct {
	SessionID string
	Wins      int
	Losses    int
	Draws     int
}

// Open creates or opens a SQLite database at the given path, creating parent
// directories and running migrations as needed. A leading ~ expands to the
// user's home directory.
func Open(dbPath string) (*Store, error) {
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

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS online_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player1_session TEXT NOT NULL,
			player2_session TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_online_matches_game_id ON online_matches(game_id);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player1 ON online_matches(player1_session);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player2 ON online_matches(player2_session);
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

// parseTimestamp handles both forms the driver returns for DATETIME columns.
func parseTimestamp(v any) time.Time {
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

// SaveScore records a score for the given game and returns the row ID.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

func (s *Store) queryScores(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// TopScores retrieves the top N scores for the given game, best first.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		gameID, limit,
	)
}

// AllScores retrieves every score for the given game, best first.
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	return s.queryScores(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC`,
		gameID,
	)
}

// HighScore returns the best score for the given game, or 0 when none exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SaveOnlineMatch records a settled online battle and returns the row ID.
func (s *Store) SaveOnlineMatch(result OnlineMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, game_id, player1_session, player2_session, score1, score2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.GameID,
		result.Player1Session,
		result.Player2Session,
		result.Score1,
		result.Score2,
		result.WinnerSession,
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save online match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const matchColumns = `id, match_id, game_id, player1_session, player2_session,
	score1, score2, winner_session, end_reason, duration_secs, created_at`

// scanMatch reads one online_matches row from any row scanner.
func scanMatch(scan func(...any) error) (OnlineMatchResult, error) {
	var result OnlineMatchResult
	var createdAt any
	var winnerSession sql.NullString

	err := scan(
		&result.ID,
		&result.MatchID,
		&result.GameID,
		&result.Player1Session,
		&result.Player2Session,
		&result.Score1,
		&result.Score2,
		&winnerSession,
		&result.EndReason,
		&result.Duration,
		&createdAt,
	)
	if err != nil {
		return result, err
	}
	if winnerSession.Valid {
		result.WinnerSession = winnerSession.String
	}
	result.CreatedAt = parseTimestamp(createdAt)
	return result, nil
}

// OnlineMatchByID retrieves one battle by its match ID, or nil when absent.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	row := s.db.QueryRow(
		`SELECT `+matchColumns+` FROM online_matches WHERE match_id = ?`,
		matchID,
	)
	result, err := scanMatch(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online match: %w", err)
	}
	return &result, nil
}

func (s *Store) queryMatches(query string, args ...any) ([]OnlineMatchResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// RecentOnlineMatches retrieves the most recent battles, newest first.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM online_matches
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
}

// PlayerMatchHistory retrieves one player's battles, newest first.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM online_matches
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
}

// PlayerWinLoss aggregates a player's record across every recorded battle.
// Battles with no winner_session count as draws.
func (s *Store) PlayerWinLoss(sessionID string) (PlayerRecord, error) {
	record := PlayerRecord{SessionID: sessionID}
	err := s.db.QueryRow(
		`SELECT
			COALESCE(SUM(CASE WHEN winner_session = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN winner_session IS NOT NULL AND winner_session != '' AND winner_session != ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN winner_session IS NULL OR winner_session = '' THEN 1 ELSE 0 END), 0)
		 FROM online_matches
		 WHERE player1_session = ? OR player2_session = ?`,
		sessionID, sessionID, sessionID, sessionID,
	).Scan(&record.Wins, &record.Losses, &record.Draws)
	if err != nil {
		return record, fmt.Errorf("storage: cannot query player record: %w", err)
	}
	return record, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver, so the
// coordinator can persist results without a storage dependency.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	result := OnlineMatchResult{
		MatchID:        data.MatchID,
		GameID:         data.GameID,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Score1:         data.Score1,
		Score2:         data.Score2,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	}
	_, err := s.SaveOnlineMatch(result)
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)

// GameStats contains aggregated score statistics for one game mode.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for one game mode.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// GetAllGamesStats retrieves statistics for every game mode with scores.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed any
		if err := rows.Scan(&gs.GameID, &gs.GamesCount, &gs.HighScore, &gs.AvgScore, &gs.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTimestamp(lastPlayed)
		stats[gs.GameID] = &gs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
