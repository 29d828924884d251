package reportlog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store backed by the report_log table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open connects to databaseURL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Record inserts e
func (s *PostgresStore) Record(ctx context.Context, e *Entry) error {
	stamp(e)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO report_log (id, kind, language, mode, zodiac, chinese_zodiac,
			moon_phase, degraded, ai_status, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, e.ID, string(e.Kind), e.Language, e.Mode, e.Zodiac, e.ChineseZodiac,
		e.MoonPhase, e.Degraded, string(e.AIStatus), e.DurationMs, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert report entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	query := `
		SELECT id, kind, language, mode, zodiac, chinese_zodiac, moon_phase,
			degraded, ai_status, duration_ms, created_at
		FROM report_log
		ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list report entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var kind, status string
		if err := rows.Scan(&e.ID, &kind, &e.Language, &e.Mode, &e.Zodiac,
			&e.ChineseZodiac, &e.MoonPhase, &e.Degraded, &status,
			&e.DurationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report entry: %w", err)
		}
		e.Kind = Kind(kind)
		e.AIStatus = AIStatus(status)
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report entries: %w", err)
	}

	return entries, nil
}
