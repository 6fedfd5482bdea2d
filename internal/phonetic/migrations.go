package phonetic

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a dictionary schema migration.
type Migration struct {
	Version     int
	Description string
	Up          string
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Phrase table keyed by reading",
		Up: `
CREATE TABLE IF NOT EXISTS phrases (
    syllable    TEXT NOT NULL,
    phrase      TEXT NOT NULL,
    freq        INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (syllable, phrase)
);
CREATE INDEX IF NOT EXISTS idx_phrases_lookup ON phrases(syllable, freq DESC);
`,
	},
	{
		Version:     2,
		Description: "Track when a phrase was last chosen",
		Up: `
ALTER TABLE phrases ADD COLUMN last_used INTEGER NOT NULL DEFAULT 0;
`,
	},
}

// migrate applies pending migrations, each in its own transaction.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     INTEGER PRIMARY KEY,
			applied_at  INTEGER NOT NULL,
			description TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	current, err := schemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction for migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, applied_at, description) VALUES (?, ?, ?)",
			m.Version, time.Now().UnixNano(), m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

func schemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("get schema version: %w", err)
	}
	return v, nil
}
