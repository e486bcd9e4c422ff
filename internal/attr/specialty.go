package attr

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptySpecialtyPair is returned when specialty and subspecialty are both empty.
var ErrEmptySpecialtyPair = errors.New("specialty and subspecialty cannot both be empty")

// SpecialtyPair is a (specialty, subspecialty) pair. Either side may be
// empty, not both.
type SpecialtyPair struct {
	Specialty    string `json:"specialty,omitempty"`
	Subspecialty string `json:"subspecialty,omitempty"`
}

// NewSpecialtyPair trims both fields and validates the pair.
func NewSpecialtyPair(specialty, subspecialty string) (SpecialtyPair, error) {
	sp := SpecialtyPair{
		Specialty:    strings.TrimSpace(specialty),
		Subspecialty: strings.TrimSpace(subspecialty),
	}
	if err := sp.Validate(); err != nil {
		return SpecialtyPair{}, err
	}
	return sp, nil
}

// Validate checks the pair invariant.
func (sp SpecialtyPair) Validate() error {
	if sp.Specialty == "" && sp.Subspecialty == "" {
		return ErrEmptySpecialtyPair
	}
	return nil
}

// MatchesSpecialty compares the specialty fields of two pairs.
func (sp SpecialtyPair) MatchesSpecialty(other SpecialtyPair) bool {
	return MatchSpecialtyText(sp.Specialty, other.Specialty)
}

// MatchesSubspecialty compares the subspecialty fields of two pairs.
func (sp SpecialtyPair) MatchesSubspecialty(other SpecialtyPair) bool {
	return MatchSpecialtyText(sp.Subspecialty, other.Subspecialty)
}

// Matches reports whether both the specialty and the subspecialty match.
func (sp SpecialtyPair) Matches(other SpecialtyPair) bool {
	return sp.MatchesSpecialty(other) && sp.MatchesSubspecialty(other)
}

func (sp SpecialtyPair) String() string {
	if sp.Subspecialty == "" {
		return sp.Specialty
	}
	return sp.Specialty + "|" + sp.Subspecialty
}

// MatchSpecialtyText is the lenient specialty comparison: case-insensitive
// equality, or any shared word once the generic word "medicine" and
// punctuation-only tokens are removed. "Internal Medicine" matches
// "Internal Medicine/Pediatrics"; "Family Medicine" does not match
// "Internal Medicine". The relation is symmetric.
func MatchSpecialtyText(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	if strings.EqualFold(a, b) {
		return true
	}
	words := specialtyWords(a)
	for w := range specialtyWords(b) {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}

func specialtyWords(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(s)) {
		if f == "medicine" || !hasLetterOrDigit(f) {
			continue
		}
		words[f] = struct{}{}
	}
	return words
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// ParseSpecialty splits an Open Payments specialty string of the form
// "Provider Type|Specialty|Subspecialty". Strings carrying only a provider
// type yield ErrEmptySpecialtyPair.
func ParseSpecialty(s string) (providerType string, pair SpecialtyPair, err error) {
	parts := strings.SplitN(s, "|", 3)
	providerType = strings.TrimSpace(parts[0])
	var spec, sub string
	if len(parts) > 1 {
		spec = parts[1]
	}
	if len(parts) > 2 {
		sub = parts[2]
	}
	pair, err = NewSpecialtyPair(spec, sub)
	return providerType, pair, err
}
