// Package storage provides SQLite-based persistence for finished games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/neonsnake/internal/snake"
)

// DefaultMaxRecent caps Statistics.RecentScores when no limit is given.
const DefaultMaxRecent = 10

const timeLayout = "2006-01-02 15:04:05.000"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store is closed")

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// ScoreRecord is one finished game.
type ScoreRecord struct {
	ID        string // uuid
	Score     int
	Level     int
	Duration  time.Duration
	Mode      string
	CreatedAt time.Time
}

// Statistics are aggregates over every stored record.
type Statistics struct {
	TotalGames    int
	TotalScore    int
	TotalPlayTime time.Duration
	HighScore     int
	HighestLevel  int
	AverageScore  int
	RecentScores  []ScoreRecord // newest first
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandPath(dbPath)
	if err != nil {
		return nil, err
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

	store := &Store{db: db, now: time.Now}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(p string) (string, error) {
	if p == "" || p[0] != '~' {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			record_id TEXT NOT NULL UNIQUE,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			mode TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_mode ON scores(mode);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveResult appends a record for a finished game.
func (s *Store) SaveResult(r snake.Result) (ScoreRecord, error) {
	if s.db == nil {
		return ScoreRecord{}, ErrClosed
	}

	rec := ScoreRecord{
		ID:        uuid.NewString(),
		Score:     r.Score,
		Level:     max(r.Level, 1),
		Duration:  r.Duration,
		Mode:      r.Mode,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if rec.Mode == "" {
		rec.Mode = snake.ModeClassic
	}

	_, err := s.db.Exec(
		`INSERT INTO scores (record_id, score, level, duration_ms, mode, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Score, rec.Level, rec.Duration.Milliseconds(), rec.Mode,
		rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return ScoreRecord{}, fmt.Errorf("storage: cannot save score: %w", err)
	}

	return rec, nil
}

// TopScores returns the best records, highest score first.
func (s *Store) TopScores(limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.query(
		`SELECT record_id, score, level, duration_ms, mode, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// RecentScores returns the newest records first.
func (s *Store) RecentScores(limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = DefaultMaxRecent
	}
	return s.query(
		`SELECT record_id, score, level, duration_ms, mode, created_at
		 FROM scores
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) query(q string, args ...any) ([]ScoreRecord, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var records []ScoreRecord
	for rows.Next() {
		var r ScoreRecord
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Score, &r.Level, &durationMS, &r.Mode, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// parseTime handles both driver-decoded times and raw text columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// HighScore returns the highest stored score, or 0 when there is none.
func (s *Store) HighScore() (int, error) {
	if s.db == nil {
		return 0, ErrClosed
	}

	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM scores").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Statistics recomputes the aggregates over all records. RecentScores is
// capped at maxRecent.
func (s *Store) Statistics(maxRecent int) (Statistics, error) {
	if s.db == nil {
		return Statistics{}, ErrClosed
	}

	var (
		stats        Statistics
		totalScore   sql.NullInt64
		totalMS      sql.NullInt64
		highScore    sql.NullInt64
		highestLevel sql.NullInt64
	)
	err := s.db.QueryRow(
		`SELECT COUNT(*), SUM(score), SUM(duration_ms), MAX(score), MAX(level) FROM scores`,
	).Scan(&stats.TotalGames, &totalScore, &totalMS, &highScore, &highestLevel)
	if err != nil {
		return Statistics{}, fmt.Errorf("storage: cannot query statistics: %w", err)
	}

	stats.TotalScore = int(totalScore.Int64)
	stats.TotalPlayTime = time.Duration(totalMS.Int64) * time.Millisecond
	stats.HighScore = int(highScore.Int64)
	stats.HighestLevel = max(int(highestLevel.Int64), 1)
	if stats.TotalGames > 0 {
		stats.AverageScore = int(math.Round(float64(stats.TotalScore) / float64(stats.TotalGames)))
	}

	recent, err := s.RecentScores(maxRecent)
	if err != nil {
		return Statistics{}, err
	}
	stats.RecentScores = recent

	return stats, nil
}

// ClearScores deletes every record.
func (s *Store) ClearScores() error {
	if s.db == nil {
		return ErrClosed
	}
	if _, err := s.db.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}
