package ledger

import (
	"github.com/gyeh/conflicted-ids/internal/attr"
	"github.com/gyeh/conflicted-ids/internal/linkage"
)

// MatchedRow is one resolved person and the payment profile chosen for them.
type MatchedRow struct {
	ProviderPK  int64                `json:"provider_pk"`
	ProfileID   string               `json:"profile_id"`
	NPI         int64                `json:"npi,omitempty"`
	FirstName   string               `json:"first_name"`
	MiddleName  string               `json:"middle_name,omitempty"`
	LastName    string               `json:"last_name"`
	Credentials []attr.Credential    `json:"credentials,omitempty"`
	Specialties []attr.SpecialtyPair `json:"specialties,omitempty"`
	CityStates  []attr.CityState     `json:"citystates,omitempty"`
	Filters     []string             `json:"filters"`
	NumFilters  int                  `json:"num_filters"`
}

// UnmatchedRow is one person without a resolved profile.
type UnmatchedRow struct {
	ProviderPK    int64    `json:"provider_pk"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Unmatched     string   `json:"unmatched"`
	Filters       []string `json:"filters,omitempty"`
	NumCandidates int      `json:"num_candidates"`
}

// OptionRow is one of the tied candidates kept for an UNFILTERABLE person.
type OptionRow struct {
	ProviderPK int64    `json:"provider_pk"`
	ProfileID  string   `json:"profile_id"`
	NPI        int64    `json:"npi,omitempty"`
	FirstName  string   `json:"first_name"`
	MiddleName string   `json:"middle_name,omitempty"`
	LastName   string   `json:"last_name"`
	Filters    []string `json:"filters"`
}

// Tables are the ledger's exported views, ordered by submission.
type Tables struct {
	Matched   []MatchedRow   `json:"matched"`
	Unmatched []UnmatchedRow `json:"unmatched"`
	Options   []OptionRow    `json:"unmatched_options"`
}

// Tables flattens the ledger into rows.
func (l *Ledger) Tables() Tables {
	t := Tables{
		Matched:   []MatchedRow{},
		Unmatched: []UnmatchedRow{},
		Options:   []OptionRow{},
	}
	for _, pk := range l.order {
		if out, ok := l.matched[pk]; ok {
			t.Matched = append(t.Matched, matchedRow(out))
			continue
		}
		out, ok := l.unmatched[pk]
		if !ok {
			continue
		}
		t.Unmatched = append(t.Unmatched, UnmatchedRow{
			ProviderPK:    pk,
			FirstName:     out.Person.FirstName,
			LastName:      out.Person.LastName,
			Unmatched:     string(out.Reason),
			Filters:       out.Best.Strings(),
			NumCandidates: out.NumCandidates,
		})
		for _, c := range out.Options {
			t.Options = append(t.Options, OptionRow{
				ProviderPK: pk,
				ProfileID:  c.Payment.ProfileID,
				NPI:        c.Payment.NPI,
				FirstName:  c.Payment.FirstName,
				MiddleName: c.Payment.MiddleName,
				LastName:   c.Payment.LastName,
				Filters:    c.Filters.Strings(),
			})
		}
	}
	return t
}

func matchedRow(out linkage.Outcome) MatchedRow {
	p := out.Match.Payment
	return MatchedRow{
		ProviderPK:  out.Person.ProviderPK,
		ProfileID:   p.ProfileID,
		NPI:         p.NPI,
		FirstName:   p.FirstName,
		MiddleName:  p.MiddleName,
		LastName:    p.LastName,
		Credentials: p.Credentials,
		Specialties: p.Specialties,
		CityStates:  p.CityStates,
		Filters:     out.Match.Filters.Strings(),
		NumFilters:  out.Match.NumFilters(),
	}
}
