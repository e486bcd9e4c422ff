// Package ledger accounts for every conflicted person submitted in a batch:
// each ends up matched, unmatched, or still pending, never more than one.
package ledger

import (
	"errors"
	"fmt"

	"github.com/gyeh/conflicted-ids/internal/linkage"
)

// ErrInvariant signals a bookkeeping bug. A batch that hits it must stop.
var ErrInvariant = errors.New("ledger invariant violated")

// Ledger holds the outcomes of one batch. It is not safe for concurrent
// use; a single writer records outcomes.
type Ledger struct {
	submitted int
	pending   map[int64]*linkage.ConflictedPerson
	order     []int64

	matched   map[int64]linkage.Outcome
	unmatched map[int64]linkage.Outcome
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		pending:   make(map[int64]*linkage.ConflictedPerson),
		matched:   make(map[int64]linkage.Outcome),
		unmatched: make(map[int64]linkage.Outcome),
	}
}

// Submit registers people as pending. A provider_pk that is already known
// to the ledger is an error.
func (l *Ledger) Submit(people []linkage.ConflictedPerson) error {
	seen := make(map[int64]struct{}, len(people))
	for i := range people {
		pk := people[i].ProviderPK
		if _, dup := seen[pk]; dup || l.Known(pk) {
			return fmt.Errorf("provider_pk %d submitted twice", pk)
		}
		seen[pk] = struct{}{}
	}
	for i := range people {
		p := &people[i]
		l.pending[p.ProviderPK] = p
		l.order = append(l.order, p.ProviderPK)
		l.submitted++
	}
	return nil
}

// Has reports whether pk already has a recorded outcome.
func (l *Ledger) Has(pk int64) bool {
	_, m := l.matched[pk]
	_, u := l.unmatched[pk]
	return m || u
}

// Known reports whether pk was submitted, whatever its current state.
func (l *Ledger) Known(pk int64) bool {
	_, p := l.pending[pk]
	return p || l.Has(pk)
}

// Pending returns the people still awaiting an outcome, in submit order.
func (l *Ledger) Pending() []*linkage.ConflictedPerson {
	out := make([]*linkage.ConflictedPerson, 0, len(l.pending))
	for _, pk := range l.order {
		if p, ok := l.pending[pk]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Record moves an outcome's person out of pending. Recording a person that
// is not pending violates the invariant.
func (l *Ledger) Record(out linkage.Outcome) error {
	if out.Person == nil {
		return fmt.Errorf("%w: outcome without a person", ErrInvariant)
	}
	pk := out.Person.ProviderPK
	if _, ok := l.pending[pk]; !ok {
		return fmt.Errorf("%w: provider_pk %d is not pending", ErrInvariant, pk)
	}

	switch out.State {
	case linkage.StateResolved:
		if out.Match == nil {
			return fmt.Errorf("%w: provider_pk %d resolved without a match", ErrInvariant, pk)
		}
		l.matched[pk] = out
	case linkage.StateUnmatched:
		if out.Reason == "" {
			return fmt.Errorf("%w: provider_pk %d unmatched without a reason", ErrInvariant, pk)
		}
		l.unmatched[pk] = out
	default:
		return fmt.Errorf("%w: provider_pk %d recorded in non-terminal state %s", ErrInvariant, pk, out.State)
	}
	delete(l.pending, pk)
	return l.Check()
}

// Check verifies that every submitted person is in exactly one of the
// matched, unmatched and pending sets.
func (l *Ledger) Check() error {
	for pk := range l.matched {
		if _, ok := l.unmatched[pk]; ok {
			return fmt.Errorf("%w: provider_pk %d both matched and unmatched", ErrInvariant, pk)
		}
		if _, ok := l.pending[pk]; ok {
			return fmt.Errorf("%w: provider_pk %d both matched and pending", ErrInvariant, pk)
		}
	}
	for pk := range l.unmatched {
		if _, ok := l.pending[pk]; ok {
			return fmt.Errorf("%w: provider_pk %d both unmatched and pending", ErrInvariant, pk)
		}
	}
	if total := len(l.matched) + len(l.unmatched) + len(l.pending); total != l.submitted {
		return fmt.Errorf("%w: %d submitted but %d matched + %d unmatched + %d pending",
			ErrInvariant, l.submitted, len(l.matched), len(l.unmatched), len(l.pending))
	}
	return nil
}

// Stats summarizes the ledger.
type Stats struct {
	Submitted    int `json:"submitted"`
	Matched      int `json:"matched"`
	Unmatched    int `json:"unmatched"`
	NoLastName   int `json:"no_last_name"`
	Unfilterable int `json:"unfilterable"`
	Pending      int `json:"pending"`
}

// Stats returns current counts.
func (l *Ledger) Stats() Stats {
	s := Stats{
		Submitted: l.submitted,
		Matched:   len(l.matched),
		Unmatched: len(l.unmatched),
		Pending:   len(l.pending),
	}
	for _, out := range l.unmatched {
		switch out.Reason {
		case linkage.NoLastName:
			s.NoLastName++
		case linkage.Unfilterable:
			s.Unfilterable++
		}
	}
	return s
}
