package ingest

import (
	"sort"

	"github.com/gyeh/conflicted-ids/internal/linkage"
)

// UniquePayments collapses rows sharing a profile ID, keeping the most
// recent year (or the most complete row when years tie). Rows without a
// profile ID are kept. Order follows first appearance.
func UniquePayments(records []linkage.PaymentRecord) []linkage.PaymentRecord {
	pos := make(map[string]int, len(records))
	out := make([]linkage.PaymentRecord, 0, len(records))
	for i := range records {
		rec := records[i]
		if rec.ProfileID == "" {
			out = append(out, rec)
			continue
		}
		j, ok := pos[rec.ProfileID]
		if !ok {
			pos[rec.ProfileID] = len(out)
			out = append(out, rec)
			continue
		}
		if linkage.PreferPayment(&rec, &out[j]) {
			out[j] = rec
		}
	}
	return out
}

// Uniques accumulates the distinct credential, specialty and payment type
// strings seen across raw rows.
type Uniques struct {
	credentials  map[string]struct{}
	specialties  map[string]struct{}
	paymentTypes map[Category]map[string]struct{}
}

// NewUniques returns an empty accumulator.
func NewUniques() *Uniques {
	return &Uniques{
		credentials:  make(map[string]struct{}),
		specialties:  make(map[string]struct{}),
		paymentTypes: make(map[Category]map[string]struct{}),
	}
}

// Add records r's values.
func (u *Uniques) Add(r *RawPayment) {
	for _, c := range r.Credentials {
		if c != "" {
			u.credentials[c] = struct{}{}
		}
	}
	for _, s := range r.Specialties {
		if s != "" {
			u.specialties[s] = struct{}{}
		}
	}
	if r.PaymentType != "" {
		m := u.paymentTypes[r.Category]
		if m == nil {
			m = make(map[string]struct{})
			u.paymentTypes[r.Category] = m
		}
		m[r.PaymentType] = struct{}{}
	}
}

// AddRecord records a normalized record's credentials and specialties.
// Specialties are written "Specialty|Subspecialty".
func (u *Uniques) AddRecord(rec *linkage.PaymentRecord) {
	for _, c := range rec.Credentials {
		u.credentials[string(c)] = struct{}{}
	}
	for _, sp := range rec.Specialties {
		u.specialties[sp.String()] = struct{}{}
	}
}

// Credentials returns the distinct credential strings, sorted.
func (u *Uniques) Credentials() []string {
	return sortedKeys(u.credentials)
}

// Specialties returns the distinct specialty strings, sorted.
func (u *Uniques) Specialties() []string {
	return sortedKeys(u.specialties)
}

// PaymentTypes returns the distinct payment types per category, sorted.
func (u *Uniques) PaymentTypes() map[Category][]string {
	out := make(map[Category][]string, len(u.paymentTypes))
	for c, m := range u.paymentTypes {
		out[c] = sortedKeys(m)
	}
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
