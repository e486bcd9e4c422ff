package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gyeh/conflicted-ids/internal/attr"
	"github.com/gyeh/conflicted-ids/internal/linkage"
)

// flexString accepts a JSON string or number. Profile IDs arrive both ways.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

// paymentWire is the NDJSON shape of a payment record.
type paymentWire struct {
	ProfileID   flexString           `json:"profile_id"`
	NPI         int64                `json:"npi"`
	FirstName   string               `json:"first_name"`
	MiddleName  string               `json:"middle_name"`
	LastName    string               `json:"last_name"`
	Credentials []string             `json:"credentials"`
	Specialties []attr.SpecialtyPair `json:"specialties"`
	CityStates  []attr.CityState     `json:"citystates"`
	Year        int                  `json:"year"`
}

func (w *paymentWire) record() (linkage.PaymentRecord, error) {
	rec := linkage.PaymentRecord{
		ProfileID:  strings.TrimSpace(string(w.ProfileID)),
		NPI:        w.NPI,
		FirstName:  strings.TrimSpace(w.FirstName),
		MiddleName: strings.TrimSpace(w.MiddleName),
		LastName:   strings.TrimSpace(w.LastName),
		Year:       w.Year,
	}
	var err error
	if rec.Credentials, err = parseCredentials(w.Credentials); err != nil {
		return rec, err
	}
	if rec.Specialties, err = validSpecialties(w.Specialties); err != nil {
		return rec, err
	}
	if rec.CityStates, err = validCityStates(w.CityStates); err != nil {
		return rec, err
	}
	return rec, nil
}

// personWire is the JSON shape of a roster entry.
type personWire struct {
	ProviderPK     int64                `json:"provider_pk"`
	FirstName      string               `json:"first_name"`
	LastName       string               `json:"last_name"`
	MiddleInitial1 string               `json:"middle_initial_1"`
	MiddleInitial2 string               `json:"middle_initial_2"`
	MiddleName1    string               `json:"middle_name_1"`
	MiddleName2    string               `json:"middle_name_2"`
	Credentials    []string             `json:"credentials"`
	Specialties    []attr.SpecialtyPair `json:"specialties"`
	CityStates     []attr.CityState     `json:"citystates"`
}

func (w *personWire) person() (linkage.ConflictedPerson, error) {
	p := linkage.ConflictedPerson{
		ProviderPK:     w.ProviderPK,
		FirstName:      strings.TrimSpace(w.FirstName),
		LastName:       strings.TrimSpace(w.LastName),
		MiddleInitials: [2]string{strings.TrimSpace(w.MiddleInitial1), strings.TrimSpace(w.MiddleInitial2)},
		MiddleNames:    [2]string{strings.TrimSpace(w.MiddleName1), strings.TrimSpace(w.MiddleName2)},
	}
	var err error
	if p.Credentials, err = parseCredentials(w.Credentials); err != nil {
		return p, fmt.Errorf("provider_pk %d: %w", w.ProviderPK, err)
	}
	if p.Specialties, err = validSpecialties(w.Specialties); err != nil {
		return p, fmt.Errorf("provider_pk %d: %w", w.ProviderPK, err)
	}
	if p.CityStates, err = validCityStates(w.CityStates); err != nil {
		return p, fmt.Errorf("provider_pk %d: %w", w.ProviderPK, err)
	}
	return p, nil
}

func parseCredentials(values []string) ([]attr.Credential, error) {
	var out []attr.Credential
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		c, err := attr.ParseCredential(v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func validSpecialties(pairs []attr.SpecialtyPair) ([]attr.SpecialtyPair, error) {
	out := make([]attr.SpecialtyPair, 0, len(pairs))
	for _, sp := range pairs {
		sp, err := attr.NewSpecialtyPair(sp.Specialty, sp.Subspecialty)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, nil
}

func validCityStates(pairs []attr.CityState) ([]attr.CityState, error) {
	out := make([]attr.CityState, 0, len(pairs))
	for _, cs := range pairs {
		cs, err := attr.NewCityState(cs.City, cs.State)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, nil
}
