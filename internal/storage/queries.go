package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GetMetadata retrieves a value from the feed_metadata table.
func (db *DB) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM feed_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetMetadata stores a key-value pair in the feed_metadata table.
func (db *DB) SetMetadata(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO feed_metadata (key, value) VALUES (?, ?)`,
		key, value)
	return err
}

// Selection is a persisted departure/destination pair. Empty means unset.
type Selection struct {
	Departure   string
	Destination string
	UpdatedAt   time.Time
}

// SaveSelection upserts the trip endpoints for a session.
func (db *DB) SaveSelection(ctx context.Context, sessionID, departure, destination string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO selections (session_id, departure, destination, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(session_id) DO UPDATE SET
			departure = excluded.departure,
			destination = excluded.destination,
			updated_at = excluded.updated_at`,
		sessionID, departure, destination)
	if err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

// LoadSelection returns the stored pair for a session, or nil if none.
func (db *DB) LoadSelection(ctx context.Context, sessionID string) (*Selection, error) {
	var s Selection
	var updated string
	err := db.QueryRowContext(ctx,
		`SELECT departure, destination, updated_at FROM selections WHERE session_id = ?`,
		sessionID).Scan(&s.Departure, &s.Destination, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	s.UpdatedAt, _ = time.Parse(time.DateTime, updated)
	return &s, nil
}

// DeleteSelection forgets a session's trip.
func (db *DB) DeleteSelection(ctx context.Context, sessionID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM selections WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete selection: %w", err)
	}
	return nil
}

// PurgeSelections deletes selections not updated within maxAge and
// returns how many were removed.
func (db *DB) PurgeSelections(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.DateTime)
	res, err := db.ExecContext(ctx, `DELETE FROM selections WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge selections: %w", err)
	}
	return res.RowsAffected()
}
