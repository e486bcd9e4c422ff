package ledger

import (
	"errors"
	"testing"

	"github.com/gyeh/conflicted-ids/internal/linkage"
)

func people() []linkage.ConflictedPerson {
	return []linkage.ConflictedPerson{
		{ProviderPK: 1, FirstName: "John", LastName: "Doe"},
		{ProviderPK: 2, FirstName: "Alex", LastName: "Kim"},
		{ProviderPK: 3, FirstName: "Dave", LastName: "Ebalt"},
	}
}

func resolved(p *linkage.ConflictedPerson, profile string) linkage.Outcome {
	c := &linkage.Candidate{
		Person:  p,
		Payment: &linkage.PaymentRecord{ProfileID: profile, FirstName: p.FirstName, LastName: p.LastName},
		Filters: linkage.Tags{linkage.TagLastname, linkage.TagFirstname},
	}
	return linkage.Outcome{Person: p, State: linkage.StateResolved, Match: c, Best: c.Filters}
}

func TestLedger_RecordAndTables(t *testing.T) {
	l := New()
	ps := people()
	if err := l.Submit(ps); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := l.Check(); err != nil {
		t.Fatalf("Check after submit: %v", err)
	}

	if err := l.Record(resolved(&ps[0], "P1")); err != nil {
		t.Fatalf("Record matched: %v", err)
	}

	options := []*linkage.Candidate{
		{Person: &ps[1], Payment: &linkage.PaymentRecord{ProfileID: "X"}, Filters: linkage.Tags{linkage.TagLastname}},
		{Person: &ps[1], Payment: &linkage.PaymentRecord{ProfileID: "Y"}, Filters: linkage.Tags{linkage.TagLastname}},
	}
	if err := l.Record(linkage.Outcome{
		Person:        &ps[1],
		State:         linkage.StateUnmatched,
		Reason:        linkage.Unfilterable,
		Best:          options[0].Filters,
		NumCandidates: 2,
		Options:       options,
	}); err != nil {
		t.Fatalf("Record unfilterable: %v", err)
	}

	stats := l.Stats()
	if stats.Matched != 1 || stats.Unfilterable != 1 || stats.Pending != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if pending := l.Pending(); len(pending) != 1 || pending[0].ProviderPK != 3 {
		t.Errorf("unexpected pending %v", pending)
	}

	if err := l.Record(linkage.Outcome{Person: &ps[2], State: linkage.StateUnmatched, Reason: linkage.NoLastName}); err != nil {
		t.Fatalf("Record nolastname: %v", err)
	}

	tables := l.Tables()
	if len(tables.Matched) != 1 || tables.Matched[0].ProfileID != "P1" || tables.Matched[0].NumFilters != 2 {
		t.Errorf("unexpected matched %+v", tables.Matched)
	}
	if len(tables.Unmatched) != 2 {
		t.Fatalf("expected 2 unmatched, got %d", len(tables.Unmatched))
	}
	if tables.Unmatched[0].Unmatched != "UNFILTERABLE" || tables.Unmatched[1].Unmatched != "NOLASTNAME" {
		t.Errorf("unexpected unmatched order %+v", tables.Unmatched)
	}
	if len(tables.Options) != 2 || tables.Options[1].ProfileID != "Y" {
		t.Errorf("unexpected options %+v", tables.Options)
	}
}

func TestLedger_DoubleRecordIsInvariantViolation(t *testing.T) {
	l := New()
	ps := people()
	if err := l.Submit(ps); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := l.Record(resolved(&ps[0], "P1")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	err := l.Record(resolved(&ps[0], "P1"))
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}
	if !l.Has(1) || l.Has(2) {
		t.Error("Has reports wrong membership")
	}
}

func TestLedger_RejectsNonTerminalAndUnknown(t *testing.T) {
	l := New()
	ps := people()
	if err := l.Submit(ps[:1]); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := l.Record(linkage.Outcome{Person: &ps[0], State: linkage.StateCascaded}); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant for non-terminal state, got %v", err)
	}
	ambiguous := linkage.Outcome{Person: &ps[0], State: linkage.StateAmbiguous, Reason: linkage.Unfilterable}
	if err := l.Record(ambiguous); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant for ambiguous state, got %v", err)
	}
	if err := l.Record(linkage.Outcome{Person: &ps[1], State: linkage.StateUnmatched, Reason: linkage.NoLastName}); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant for unknown person, got %v", err)
	}
}

func TestLedger_DuplicateSubmit(t *testing.T) {
	l := New()
	ps := people()
	if err := l.Submit(append(ps, ps[0])); err == nil {
		t.Fatal("expected duplicate provider_pk error")
	}
	if s := l.Stats(); s.Submitted != 0 || s.Pending != 0 {
		t.Errorf("rejected submit left state behind: %+v", s)
	}
	if err := l.Submit(ps); err != nil {
		t.Fatalf("Submit after rejected batch: %v", err)
	}
	if s := l.Stats(); s.Submitted != 3 || s.Pending != 3 {
		t.Errorf("stats = %+v", s)
	}
}
