package db

import (
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		slot           TEXT NOT NULL,
		key            TEXT NOT NULL,
		schema_version INTEGER NOT NULL,
		saved_at       TEXT NOT NULL,
		payload        TEXT NOT NULL,
		PRIMARY KEY (slot, key)
	)`,
	`ALTER TABLE snapshots ADD COLUMN persona TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_saved_at ON snapshots(saved_at)`,
}

// Migrate applies every schema statement. It is safe to run repeatedly.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
