// Package storage provides SQLite-based persistence for the session journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the session journal.
type Store struct {
	db *sql.DB
}

// Session sources.
const (
	SourcePlay = "play"
	SourceSSH  = "ssh"
	SourceSoak = "soak"
)

// Session is one finished (or abandoned) board.
type Session struct {
	ID           string // UUID, assigned by SaveSession when empty
	Preset       string
	Seed         int64
	Source       string // "play", "ssh" or "soak"
	Moves        int
	Resolutions  int
	Destroyed    int
	Shuffles     int
	Fallbacks    int
	LargestGroup int
	Deadlocked   bool
	Duration     int // Duration in seconds
	CreatedAt    time.Time
}

// PresetStats contains aggregated statistics for a preset.
type PresetStats struct {
	Preset       string
	Sessions     int
	Moves        int
	Destroyed    int64
	LargestGroup int
	AvgMoves     float64
	Deadlocks    int
	LastPlayed   time.Time
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

	// Test connection
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
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			preset TEXT NOT NULL,
			seed INTEGER NOT NULL,
			source TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			resolutions INTEGER NOT NULL DEFAULT 0,
			destroyed INTEGER NOT NULL DEFAULT 0,
			shuffles INTEGER NOT NULL DEFAULT 0,
			fallbacks INTEGER NOT NULL DEFAULT 0,
			largest_group INTEGER NOT NULL DEFAULT 0,
			deadlocked INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_preset ON sessions(preset);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);
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

// SaveSession records a session and returns its ID.
func (s *Store) SaveSession(sess Session) (string, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.Source == "" {
		sess.Source = SourcePlay
	}

	_, err := s.db.Exec(
		`INSERT INTO sessions
		 (id, preset, seed, source, moves, resolutions, destroyed, shuffles, fallbacks, largest_group, deadlocked, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.Preset,
		sess.Seed,
		sess.Source,
		sess.Moves,
		sess.Resolutions,
		sess.Destroyed,
		sess.Shuffles,
		sess.Fallbacks,
		sess.LargestGroup,
		sess.Deadlocked,
		sess.Duration,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save session: %w", err)
	}
	return sess.ID, nil
}

const sessionColumns = `id, preset, seed, source, moves, resolutions, destroyed,
	shuffles, fallbacks, largest_group, deadlocked, duration_secs, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var sess Session
	var createdAt any
	err := row.Scan(
		&sess.ID,
		&sess.Preset,
		&sess.Seed,
		&sess.Source,
		&sess.Moves,
		&sess.Resolutions,
		&sess.Destroyed,
		&sess.Shuffles,
		&sess.Fallbacks,
		&sess.LargestGroup,
		&sess.Deadlocked,
		&sess.Duration,
		&createdAt,
	)
	sess.CreatedAt = parseTime(createdAt)
	return sess, err
}

// SessionByID retrieves a session by its ID. Returns nil if it does not exist.
func (s *Store) SessionByID(id string) (*Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return &sess, nil
}

// RecentSessions returns the latest sessions, newest first. An empty preset
// matches every preset.
func (s *Store) RecentSessions(preset string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE ? = '' OR preset = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		preset, preset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// ClearSessions deletes every session of the given preset.
func (s *Store) ClearSessions(preset string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE preset = ?", preset)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// AllPresetStats retrieves statistics for every preset that has been played.
func (s *Store) AllPresetStats() (map[string]*PresetStats, error) {
	rows, err := s.db.Query(
		`SELECT preset, COUNT(*), SUM(moves), SUM(destroyed), MAX(largest_group),
		        AVG(moves), SUM(deadlocked), MAX(created_at)
		 FROM sessions
		 GROUP BY preset`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get preset stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*PresetStats)
	for rows.Next() {
		var ps PresetStats
		var lastPlayed any
		if err := rows.Scan(&ps.Preset, &ps.Sessions, &ps.Moves, &ps.Destroyed, &ps.LargestGroup,
			&ps.AvgMoves, &ps.Deadlocks, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ps.LastPlayed = parseTime(lastPlayed)
		stats[ps.Preset] = &ps
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and the string form SQLite returns.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
