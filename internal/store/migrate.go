package store

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		sheet_count   INTEGER NOT NULL DEFAULT 0,
		waste_percent INTEGER NOT NULL DEFAULT 0,
		unplaced      INTEGER NOT NULL DEFAULT 0,
		project_json  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
