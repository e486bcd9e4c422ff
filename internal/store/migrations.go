package store

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, q := range queries {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("executing query: %w", err)
		}
	}
	return nil
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Master ledger tables",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS conflicted_ids (
					provider_pk INTEGER PRIMARY KEY,
					profile_id TEXT NOT NULL,
					npi INTEGER,
					first_name TEXT,
					middle_name TEXT,
					last_name TEXT,
					filters TEXT NOT NULL,
					num_filters INTEGER NOT NULL,
					run_id TEXT NOT NULL,
					updated_at DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_conflicted_ids_profile ON conflicted_ids(profile_id)`,
				`CREATE TABLE IF NOT EXISTS unmatched_ids (
					provider_pk INTEGER PRIMARY KEY,
					first_name TEXT,
					last_name TEXT,
					reason TEXT NOT NULL,
					filters TEXT,
					num_candidates INTEGER NOT NULL DEFAULT 0,
					run_id TEXT NOT NULL,
					updated_at DATETIME NOT NULL
				)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Index unmatched reasons",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, `CREATE INDEX IF NOT EXISTS idx_unmatched_ids_reason ON unmatched_ids(reason)`)
		},
	},
}

// SchemaVersion is the version the newest migration brings the database to.
var SchemaVersion = migrations[len(migrations)-1].Version

func (s *Store) migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("updating schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// Version returns the database's schema version.
func (s *Store) Version(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v)
	return v, err
}
