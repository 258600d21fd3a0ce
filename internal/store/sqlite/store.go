package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/promptsentry/promptsentry-go/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- One row per detect call. Prompts are never stored.
	CREATE TABLE IF NOT EXISTS detections (
		detection_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		prompt_chars INTEGER NOT NULL,
		safe INTEGER NOT NULL,
		fail_open INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		latency_ms INTEGER NOT NULL DEFAULT 0
	);

	-- One row per canary leakage check
	CREATE TABLE IF NOT EXISTS canary_checks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		canary_word TEXT NOT NULL,
		leaked INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_detections_created ON detections(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_canary_checks_created ON canary_checks(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordDetection stores one detect call result.
func (s *Store) RecordDetection(ctx context.Context, d store.Detection) error {
	query := `
		INSERT INTO detections (detection_id, created_at, prompt_chars, safe, fail_open, error, latency_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		d.DetectionID,
		d.CreatedAt.Unix(),
		d.PromptChars,
		d.Safe,
		d.FailOpen,
		d.Error,
		d.LatencyMS,
	)
	if err != nil {
		return fmt.Errorf("failed to record detection: %w", err)
	}

	return nil
}

// ListDetections returns the most recent detections, newest first.
func (s *Store) ListDetections(ctx context.Context, limit int) ([]store.Detection, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT detection_id, created_at, prompt_chars, safe, fail_open, error, latency_ms
		FROM detections
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list detections: %w", err)
	}
	defer rows.Close()

	var detections []store.Detection
	for rows.Next() {
		var d store.Detection
		var createdAt int64
		var errText sql.NullString
		if err := rows.Scan(&d.DetectionID, &createdAt, &d.PromptChars, &d.Safe, &d.FailOpen, &errText, &d.LatencyMS); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		d.CreatedAt = unixTime(createdAt)
		d.Error = errText.String
		detections = append(detections, d)
	}

	return detections, rows.Err()
}

// RecordCanaryCheck stores one canary leakage check.
func (s *Store) RecordCanaryCheck(ctx context.Context, c store.CanaryCheck) error {
	query := `
		INSERT INTO canary_checks (created_at, canary_word, leaked)
		VALUES (?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		c.CreatedAt.Unix(),
		c.CanaryWord,
		c.Leaked,
	)
	if err != nil {
		return fmt.Errorf("failed to record canary check: %w", err)
	}

	return nil
}

// ListCanaryChecks returns the most recent canary checks, newest first.
func (s *Store) ListCanaryChecks(ctx context.Context, limit int) ([]store.CanaryCheck, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, created_at, canary_word, leaked
		FROM canary_checks
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list canary checks: %w", err)
	}
	defer rows.Close()

	var checks []store.CanaryCheck
	for rows.Next() {
		var c store.CanaryCheck
		var createdAt int64
		if err := rows.Scan(&c.ID, &createdAt, &c.CanaryWord, &c.Leaked); err != nil {
			return nil, fmt.Errorf("failed to scan canary check: %w", err)
		}
		c.CreatedAt = unixTime(createdAt)
		checks = append(checks, c)
	}

	return checks, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
