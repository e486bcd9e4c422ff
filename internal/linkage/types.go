// Package linkage decides which Open Payments profile, if any, belongs to
// each conflicted person on a roster.
package linkage

import "github.com/gyeh/conflicted-ids/internal/attr"

// ConflictedPerson is one roster entry. ProviderPK is unique within a batch.
type ConflictedPerson struct {
	ProviderPK     int64                `json:"provider_pk"`
	FirstName      string               `json:"first_name"`
	LastName       string               `json:"last_name"`
	MiddleInitials [2]string            `json:"middle_initials"`
	MiddleNames    [2]string            `json:"middle_names"`
	Credentials    []attr.Credential    `json:"credentials,omitempty"`
	Specialties    []attr.SpecialtyPair `json:"specialties,omitempty"`
	CityStates     []attr.CityState     `json:"citystates,omitempty"`
}

// PaymentRecord is one covered recipient row from Open Payments. An empty
// ProfileID, a zero NPI and a zero Year mean the value is unknown.
type PaymentRecord struct {
	ProfileID   string               `json:"profile_id,omitempty"`
	NPI         int64                `json:"npi,omitempty"`
	FirstName   string               `json:"first_name"`
	MiddleName  string               `json:"middle_name,omitempty"`
	LastName    string               `json:"last_name"`
	Credentials []attr.Credential    `json:"credentials,omitempty"`
	Specialties []attr.SpecialtyPair `json:"specialties,omitempty"`
	CityStates  []attr.CityState     `json:"citystates,omitempty"`
	Year        int                  `json:"year,omitempty"`
}

// missingFields counts the descriptive fields that carry no data.
func (p *PaymentRecord) missingFields() int {
	n := 0
	for _, empty := range []bool{
		p.ProfileID == "",
		p.NPI == 0,
		p.FirstName == "",
		p.MiddleName == "",
		p.LastName == "",
		len(p.Credentials) == 0,
		len(p.Specialties) == 0,
		len(p.CityStates) == 0,
	} {
		if empty {
			n++
		}
	}
	return n
}

// Candidate pairs a conflicted person with one payment row and records the
// filters that have fired for the pair. Person and Payment are shared and
// must not be modified; Filters belongs to a single resolution.
type Candidate struct {
	Person  *ConflictedPerson
	Payment *PaymentRecord
	Filters Tags
}

// NumFilters is the number of filter tags on the candidate.
func (c *Candidate) NumFilters() int {
	return len(c.Filters)
}

// UnmatchedReason explains why a person has no resolved profile.
type UnmatchedReason string

const (
	// NoLastName means no payment row shares the person's last name.
	NoLastName UnmatchedReason = "NOLASTNAME"
	// Unfilterable means several rows survived every tie-break.
	Unfilterable UnmatchedReason = "UNFILTERABLE"
)

// State is a resolution's position in the controller's state machine.
type State int

const (
	StateInitial State = iota
	StateLastnameMatched
	StateCascaded
	StateResolved
	StateAmbiguous
	StateUnmatched
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "INITIAL"
	case StateLastnameMatched:
		return "LASTNAME_MATCHED"
	case StateCascaded:
		return "CASCADED"
	case StateResolved:
		return "RESOLVED"
	case StateAmbiguous:
		return "AMBIGUOUS"
	case StateUnmatched:
		return "UNMATCHED"
	}
	return "UNKNOWN"
}

// Outcome is the result of resolving one person. When State is
// StateResolved, Match holds the winning candidate. Otherwise Reason is
// set, Best carries the tags of the best surviving candidate, and for
// Unfilterable outcomes Options holds the tied candidates.
type Outcome struct {
	Person        *ConflictedPerson
	State         State
	Match         *Candidate
	Reason        UnmatchedReason
	Best          Tags
	NumCandidates int
	Options       []*Candidate
}

// Resolved reports whether the outcome committed a profile.
func (o *Outcome) Resolved() bool {
	return o.State == StateResolved
}
