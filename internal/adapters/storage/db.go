package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the key-value schema.
// PRE: db is a valid database connection
// POST: kv_blob table exists, WAL mode and foreign keys enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// One row per storage key, value is a JSON blob. This mirrors the
	// host's key-value storage: no schema version, no per-record rows.
	schema := `
	CREATE TABLE IF NOT EXISTS kv_blob (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
