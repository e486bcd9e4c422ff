package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gyeh/conflicted-ids/internal/ledger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Migrates(t *testing.T) {
	s := openTestStore(t)
	v, err := s.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != SchemaVersion {
		t.Errorf("version = %d, want %d", v, SchemaVersion)
	}
}

func TestSave_UpsertsAndMovesBetweenTables(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := ledger.Tables{
		Matched: []ledger.MatchedRow{
			{ProviderPK: 1, ProfileID: "P1", FirstName: "John", LastName: "Doe", Filters: []string{"LASTNAME"}, NumFilters: 1},
		},
		Unmatched: []ledger.UnmatchedRow{
			{ProviderPK: 2, FirstName: "Alex", LastName: "Kim", Unmatched: "UNFILTERABLE", NumCandidates: 2},
		},
	}
	if err := s.Save(ctx, "run-1", first); err != nil {
		t.Fatalf("Save run-1: %v", err)
	}

	second := ledger.Tables{
		Matched: []ledger.MatchedRow{
			{ProviderPK: 1, ProfileID: "P1", FirstName: "John", LastName: "Doe", Filters: []string{"LASTNAME", "FIRSTNAME"}, NumFilters: 2},
			{ProviderPK: 2, ProfileID: "X", FirstName: "Alex", LastName: "Kim", Filters: []string{"LASTNAME", "CITYSTATE"}, NumFilters: 2},
		},
	}
	if err := s.Save(ctx, "run-2", second); err != nil {
		t.Fatalf("Save run-2: %v", err)
	}

	rec, err := s.Matched(ctx, 1)
	if err != nil || rec == nil {
		t.Fatalf("Matched(1) = %v, %v", rec, err)
	}
	if rec.NumFilters != 2 || rec.RunID != "run-2" || len(rec.Filters) != 2 {
		t.Errorf("upsert did not update row: %+v", rec)
	}

	reason, err := s.UnmatchedReason(ctx, 2)
	if err != nil {
		t.Fatalf("UnmatchedReason: %v", err)
	}
	if reason != "" {
		t.Errorf("provider 2 should have left the unmatched table, reason %q", reason)
	}

	pks, err := s.MatchedPKs(ctx)
	if err != nil {
		t.Fatalf("MatchedPKs: %v", err)
	}
	if len(pks) != 2 {
		t.Errorf("expected 2 matched providers, got %d", len(pks))
	}
}

func TestMatched_Missing(t *testing.T) {
	s := openTestStore(t)
	rec, err := s.Matched(context.Background(), 99)
	if err != nil || rec != nil {
		t.Errorf("expected nil, nil; got %v, %v", rec, err)
	}
}
