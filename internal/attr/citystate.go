package attr

import (
	"errors"
	"strings"
)

// ErrEmptyCityState is returned when both city and state are empty.
var ErrEmptyCityState = errors.New("city and state cannot both be empty")

// CityState is a (city, state) pair. Either side may be empty, not both.
type CityState struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

// NewCityState trims both fields and validates the pair.
func NewCityState(city, state string) (CityState, error) {
	cs := CityState{City: strings.TrimSpace(city), State: strings.TrimSpace(state)}
	if err := cs.Validate(); err != nil {
		return CityState{}, err
	}
	return cs, nil
}

// Validate checks the pair invariant.
func (cs CityState) Validate() error {
	if cs.City == "" && cs.State == "" {
		return ErrEmptyCityState
	}
	return nil
}

// IsAbbreviation reports whether the state field is a two-letter code.
func (cs CityState) IsAbbreviation() bool {
	return IsStateAbbrev(cs.State)
}

// FullState returns the state's full name.
func (cs CityState) FullState() string {
	return StateFullName(cs.State)
}

// AbbrevState returns the state's two-letter code, or "" if unknown.
func (cs CityState) AbbrevState() string {
	return StateAbbrev(cs.State)
}

// MatchesState reports whether other names the same state as cs, treating
// "NY" and "New York" as equal. Empty on either side never matches.
func (cs CityState) MatchesState(other string) bool {
	if cs.State == "" || strings.TrimSpace(other) == "" {
		return false
	}
	a, b := StateAbbrev(cs.State), StateAbbrev(other)
	if a != "" && b != "" {
		return a == b
	}
	return strings.EqualFold(StateFullName(cs.State), StateFullName(other))
}

// MatchesCity compares cities case-insensitively. Empty never matches.
func (cs CityState) MatchesCity(other string) bool {
	other = strings.TrimSpace(other)
	if cs.City == "" || other == "" {
		return false
	}
	return strings.EqualFold(cs.City, other)
}

// Equal reports whether both the city and the state match.
func (cs CityState) Equal(other CityState) bool {
	return cs.MatchesCity(other.City) && cs.MatchesState(other.State)
}

func (cs CityState) String() string {
	switch {
	case cs.City == "":
		return cs.State
	case cs.State == "":
		return cs.City
	}
	return cs.City + ", " + cs.State
}
