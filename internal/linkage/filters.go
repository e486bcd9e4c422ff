package linkage

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gyeh/conflicted-ids/internal/attr"
)

// Predicate decides whether a filter fires for a candidate. It may read the
// tags already on the candidate but must not modify them.
type Predicate func(c *Candidate) bool

// DefaultOrder is the order filters run in. Later filters may consult tags
// set by earlier ones, so the order is part of the matching rules.
var DefaultOrder = []FilterTag{
	TagFirstname,
	TagFirstnamePartial,
	TagFirstMiddleName,
	TagMiddleInitial,
	TagMiddlename,
	TagCredential,
	TagSpecialty,
	TagSubspecialty,
	TagFullSpecialty,
	TagCity,
	TagState,
	TagCityState,
}

// predicates is the dispatch table from tag to test.
var predicates = map[FilterTag]Predicate{
	TagFirstname:        matchFirstname,
	TagFirstnamePartial: matchFirstnamePartial,
	TagFirstMiddleName:  matchFirstMiddleName,
	TagMiddleInitial:    matchMiddleInitial,
	TagMiddlename:       matchMiddlename,
	TagCredential:       matchCredential,
	TagSpecialty:        matchSpecialty,
	TagSubspecialty:     matchSubspecialty,
	TagFullSpecialty:    matchFullSpecialty,
	TagCity:             matchCity,
	TagState:            matchState,
	TagCityState:        matchCityState,
}

// Bank applies a fixed, ordered set of filters to candidates.
type Bank struct {
	order []FilterTag
}

// NewBank builds a bank running the given filters in order, or DefaultOrder
// when none are given. LASTNAME is set by assembly and cannot be registered.
func NewBank(order ...FilterTag) (*Bank, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	seen := make(map[FilterTag]bool, len(order))
	for _, tag := range order {
		if _, ok := predicates[tag]; !ok {
			return nil, fmt.Errorf("no filter registered for tag %q", tag)
		}
		if seen[tag] {
			return nil, fmt.Errorf("filter %q registered twice", tag)
		}
		seen[tag] = true
	}
	return &Bank{order: append([]FilterTag(nil), order...)}, nil
}

// Order returns the registration order.
func (b *Bank) Order() []FilterTag {
	return append([]FilterTag(nil), b.order...)
}

// Apply runs every registered filter against c, adding the tags that fire.
func (b *Bank) Apply(c *Candidate) {
	for _, tag := range b.order {
		if predicates[tag](c) {
			c.Filters.Add(tag)
		}
	}
}

func sameName(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func matchFirstname(c *Candidate) bool {
	return sameName(c.Person.FirstName, c.Payment.FirstName)
}

func matchFirstnamePartial(c *Candidate) bool {
	if c.Filters.Has(TagFirstname) {
		return false
	}
	x, p := c.Person.FirstName, c.Payment.FirstName
	return StrInStr(x, p) || StrInStr(p, x)
}

// matchFirstMiddleName catches people who go by their middle name on one
// side and their first name on the other.
func matchFirstMiddleName(c *Candidate) bool {
	if c.Filters.Has(TagFirstname) || c.Filters.Has(TagFirstnamePartial) {
		return false
	}
	for _, mn := range c.Person.MiddleNames {
		if sameName(c.Payment.FirstName, mn) {
			return true
		}
	}
	return sameName(c.Payment.MiddleName, c.Person.FirstName)
}

func initial(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, ".", ""))
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

func matchMiddleInitial(c *Candidate) bool {
	pm := strings.TrimSpace(strings.ReplaceAll(c.Payment.MiddleName, ".", ""))
	if pm == "" {
		return false
	}
	for _, mi := range c.Person.MiddleInitials {
		if sameName(initial(pm), initial(mi)) {
			return true
		}
	}
	for _, mn := range c.Person.MiddleNames {
		if sameName(pm, initial(mn)) {
			return true
		}
	}
	return false
}

func matchMiddlename(c *Candidate) bool {
	for _, mn := range c.Person.MiddleNames {
		if sameName(c.Payment.MiddleName, mn) {
			return true
		}
	}
	return false
}

func matchCredential(c *Candidate) bool {
	return attr.SharesCredential(c.Person.Credentials, c.Payment.Credentials)
}

func anySpecialty(c *Candidate, match func(a, b attr.SpecialtyPair) bool) bool {
	for _, x := range c.Person.Specialties {
		for _, p := range c.Payment.Specialties {
			if match(x, p) {
				return true
			}
		}
	}
	return false
}

func matchSpecialty(c *Candidate) bool {
	return anySpecialty(c, attr.SpecialtyPair.MatchesSpecialty)
}

func matchSubspecialty(c *Candidate) bool {
	return anySpecialty(c, attr.SpecialtyPair.MatchesSubspecialty)
}

func matchFullSpecialty(c *Candidate) bool {
	return anySpecialty(c, attr.SpecialtyPair.Matches)
}

func anyCityState(c *Candidate, match func(a, b attr.CityState) bool) bool {
	for _, x := range c.Person.CityStates {
		for _, p := range c.Payment.CityStates {
			if match(x, p) {
				return true
			}
		}
	}
	return false
}

func matchCity(c *Candidate) bool {
	return anyCityState(c, func(a, b attr.CityState) bool { return a.MatchesCity(b.City) })
}

func matchState(c *Candidate) bool {
	return anyCityState(c, func(a, b attr.CityState) bool { return a.MatchesState(b.State) })
}

func matchCityState(c *Candidate) bool {
	return anyCityState(c, attr.CityState.Equal)
}
