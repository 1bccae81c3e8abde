package storage

import "fmt"

// migrate creates the schema if it doesn't exist.
func (db *DB) migrate() error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	db.logger.Info("database migrations applied")
	return nil
}

var migrations = []string{
	// Trip endpoints chosen per browser session, keyed by station name
	`CREATE TABLE IF NOT EXISTS selections (
		session_id  TEXT PRIMARY KEY,
		departure   TEXT NOT NULL DEFAULT '',
		destination TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_selections_updated ON selections(updated_at)`,

	// Station feed metadata (last_modified, etag, refreshed_at, etc.)
	`CREATE TABLE IF NOT EXISTS feed_metadata (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}
