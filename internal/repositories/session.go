package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SessionRepository stores session key/value pairs in the session_state table.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get returns the value stored under key.
func (r *SessionRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM session_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query session state: %w", err)
	}
	return value, true, nil
}

// Set upserts all values in a single transaction.
func (r *SessionRepository) Set(values map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO session_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	for k, v := range values {
		if _, err := tx.Exec(query, k, v); err != nil {
			return fmt.Errorf("failed to write session key %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session state: %w", err)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (r *SessionRepository) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	query := "DELETE FROM session_state WHERE key IN (?" + strings.Repeat(", ?", len(keys)-1) + ")"

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}

// Count returns the number of stored keys.
func (r *SessionRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM session_state").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count session state: %w", err)
	}
	return n, nil
}
