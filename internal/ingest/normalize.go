package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gyeh/conflicted-ids/internal/attr"
	"github.com/gyeh/conflicted-ids/internal/linkage"
)

const physicianProviderType = "Allopathic & Osteopathic Physicians"

// PhysicianOnly reports whether a row belongs to an MD or DO: some specialty
// is under "Allopathic & Osteopathic Physicians" or none is given, and some
// credential is MD or DO or none is given.
func PhysicianOnly(r *RawPayment) bool {
	return physicianSpecialty(r) && physicianCredential(r)
}

func physicianSpecialty(r *RawPayment) bool {
	empty := true
	for _, s := range r.Specialties {
		if s == "" {
			continue
		}
		empty = false
		if strings.Contains(strings.ToLower(s), strings.ToLower(physicianProviderType)) {
			return true
		}
	}
	return empty
}

func physicianCredential(r *RawPayment) bool {
	empty := true
	for _, s := range r.Credentials {
		if s == "" {
			continue
		}
		empty = false
		if c, err := attr.ParseCredential(s); err == nil && c.IsPhysician() {
			return true
		}
	}
	return empty
}

// Normalize parses a raw row into a PaymentRecord. defaultYear is used when
// the row has no Program_Year. Unknown credentials and specialty strings
// without a specialty are dropped; a malformed NPI or year is an error.
func Normalize(r *RawPayment, defaultYear int) (linkage.PaymentRecord, error) {
	rec := linkage.PaymentRecord{
		ProfileID:  strings.TrimSuffix(r.ProfileID, ".0"),
		FirstName:  r.FirstName,
		MiddleName: r.MiddleName,
		LastName:   r.LastName,
		Year:       defaultYear,
	}

	if r.NPI != "" {
		npi, err := strconv.ParseInt(strings.TrimSuffix(r.NPI, ".0"), 10, 64)
		if err != nil {
			return rec, fmt.Errorf("profile %s: parsing npi %q: %w", r.ProfileID, r.NPI, err)
		}
		rec.NPI = npi
	}
	if r.ProgramYear != "" {
		year, err := strconv.Atoi(r.ProgramYear)
		if err != nil {
			return rec, fmt.Errorf("profile %s: parsing program year %q: %w", r.ProfileID, r.ProgramYear, err)
		}
		rec.Year = year
	}

	rec.Credentials = credentialsOf(r.Credentials[:])
	rec.Specialties = specialtiesOf(r.Specialties[:])
	rec.CityStates = cityStatesOf(r.City, append([]string{r.StatePrimary}, r.LicenseStates[:]...))
	return rec, nil
}

func credentialsOf(values []string) []attr.Credential {
	var out []attr.Credential
	seen := make(map[attr.Credential]bool)
	for _, v := range values {
		if v == "" {
			continue
		}
		c, err := attr.ParseCredential(v)
		if err != nil || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func specialtiesOf(values []string) []attr.SpecialtyPair {
	var out []attr.SpecialtyPair
	seen := make(map[attr.SpecialtyPair]bool)
	for _, v := range values {
		if v == "" {
			continue
		}
		_, pair, err := attr.ParseSpecialty(v)
		if err != nil || seen[pair] {
			continue
		}
		seen[pair] = true
		out = append(out, pair)
	}
	return out
}

// cityStatesOf pairs the city with each distinct state, or yields a single
// city-only pair when no state is given.
func cityStatesOf(city string, states []string) []attr.CityState {
	var out []attr.CityState
	seen := make(map[string]bool)
	for _, s := range states {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, attr.CityState{City: city, State: s})
	}
	if len(out) == 0 && city != "" {
		out = append(out, attr.CityState{City: city})
	}
	return out
}
