package journal

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS operations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      TEXT NOT NULL,
		operation   TEXT NOT NULL,
		server      TEXT NOT NULL DEFAULT '',
		item_id     TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL DEFAULT '',
		path        TEXT NOT NULL DEFAULT '',
		bytes       INTEGER NOT NULL DEFAULT 0,
		dry_run     BOOLEAN NOT NULL DEFAULT 0,
		error       TEXT,
		executed_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_operations_executed_at ON operations(executed_at)`,
}

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
