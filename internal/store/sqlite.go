// Package store persists the master ledger of conflicted provider IDs
// across runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gyeh/conflicted-ids/internal/ledger"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store is the master ledger. Each provider_pk is either matched or
// unmatched; the latest run to record it wins.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// MatchedPKs returns the provider_pks that already have a matched profile.
func (s *Store) MatchedPKs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT provider_pk FROM conflicted_ids`)
	if err != nil {
		return nil, fmt.Errorf("querying matched providers: %w", err)
	}
	defer rows.Close()

	pks := make(map[int64]struct{})
	for rows.Next() {
		var pk int64
		if err := rows.Scan(&pk); err != nil {
			return nil, fmt.Errorf("scanning provider_pk: %w", err)
		}
		pks[pk] = struct{}{}
	}
	return pks, rows.Err()
}

// Save upserts a run's tables. A provider recorded as matched is removed
// from the unmatched table and vice versa.
func (s *Store) Save(ctx context.Context, runID string, t ledger.Tables) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	now := time.Now().UTC()

	for _, row := range t.Matched {
		if err := upsertMatched(ctx, tx, runID, now, row); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	for _, row := range t.Unmatched {
		if err := upsertUnmatched(ctx, tx, runID, now, row); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", runID, err)
	}
	return nil
}

func upsertMatched(ctx context.Context, tx *sql.Tx, runID string, now time.Time, row ledger.MatchedRow) error {
	filters, err := json.Marshal(row.Filters)
	if err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM unmatched_ids WHERE provider_pk = ?`, row.ProviderPK); err != nil {
		return fmt.Errorf("clearing unmatched provider %d: %w", row.ProviderPK, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO conflicted_ids
			(provider_pk, profile_id, npi, first_name, middle_name, last_name, filters, num_filters, run_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider_pk) DO UPDATE SET
			profile_id = excluded.profile_id,
			npi = excluded.npi,
			first_name = excluded.first_name,
			middle_name = excluded.middle_name,
			last_name = excluded.last_name,
			filters = excluded.filters,
			num_filters = excluded.num_filters,
			run_id = excluded.run_id,
			updated_at = excluded.updated_at`,
		row.ProviderPK, row.ProfileID, nullInt(row.NPI), row.FirstName, row.MiddleName, row.LastName,
		string(filters), row.NumFilters, runID, now,
	)
	if err != nil {
		return fmt.Errorf("upserting matched provider %d: %w", row.ProviderPK, err)
	}
	return nil
}

func upsertUnmatched(ctx context.Context, tx *sql.Tx, runID string, now time.Time, row ledger.UnmatchedRow) error {
	filters, err := json.Marshal(row.Filters)
	if err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conflicted_ids WHERE provider_pk = ?`, row.ProviderPK); err != nil {
		return fmt.Errorf("clearing matched provider %d: %w", row.ProviderPK, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO unmatched_ids
			(provider_pk, first_name, last_name, reason, filters, num_candidates, run_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider_pk) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			reason = excluded.reason,
			filters = excluded.filters,
			num_candidates = excluded.num_candidates,
			run_id = excluded.run_id,
			updated_at = excluded.updated_at`,
		row.ProviderPK, row.FirstName, row.LastName, row.Unmatched, string(filters),
		row.NumCandidates, runID, now,
	)
	if err != nil {
		return fmt.Errorf("upserting unmatched provider %d: %w", row.ProviderPK, err)
	}
	return nil
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

// MatchedRecord is a stored match.
type MatchedRecord struct {
	ProviderPK int64
	ProfileID  string
	NumFilters int
	Filters    []string
	RunID      string
}

// Matched returns the stored match for pk, or nil.
func (s *Store) Matched(ctx context.Context, pk int64) (*MatchedRecord, error) {
	var rec MatchedRecord
	var filters string
	err := s.db.QueryRowContext(ctx,
		`SELECT provider_pk, profile_id, num_filters, filters, run_id FROM conflicted_ids WHERE provider_pk = ?`, pk,
	).Scan(&rec.ProviderPK, &rec.ProfileID, &rec.NumFilters, &filters, &rec.RunID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying provider %d: %w", pk, err)
	}
	if err := json.Unmarshal([]byte(filters), &rec.Filters); err != nil {
		return nil, fmt.Errorf("decoding filters for provider %d: %w", pk, err)
	}
	return &rec, nil
}

// UnmatchedReason returns the stored reason for pk, or "".
func (s *Store) UnmatchedReason(ctx context.Context, pk int64) (string, error) {
	var reason string
	err := s.db.QueryRowContext(ctx, `SELECT reason FROM unmatched_ids WHERE provider_pk = ?`, pk).Scan(&reason)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying unmatched provider %d: %w", pk, err)
	}
	return reason, nil
}
