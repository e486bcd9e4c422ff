package linkage

import (
	"fmt"
	"strings"
)

// FilterTag names a matching criterion that fired for a candidate.
type FilterTag string

const (
	TagLastname         FilterTag = "LASTNAME"
	TagFirstname        FilterTag = "FIRSTNAME"
	TagFirstnamePartial FilterTag = "FIRSTNAME_PARTIAL"
	TagFirstMiddleName  FilterTag = "FIRST_MIDDLE_NAME"
	TagCredential       FilterTag = "CREDENTIAL"
	TagSpecialty        FilterTag = "SPECIALTY"
	TagSubspecialty     FilterTag = "SUBSPECIALTY"
	TagFullSpecialty    FilterTag = "FULLSPECIALTY"
	TagMiddleInitial    FilterTag = "MIDDLE_INITIAL"
	TagMiddlename       FilterTag = "MIDDLENAME"
	TagCity             FilterTag = "CITY"
	TagState            FilterTag = "STATE"
	TagCityState        FilterTag = "CITYSTATE"
)

var allTags = []FilterTag{
	TagLastname, TagFirstname, TagFirstnamePartial, TagFirstMiddleName,
	TagCredential, TagSpecialty, TagSubspecialty, TagFullSpecialty,
	TagMiddleInitial, TagMiddlename, TagCity, TagState, TagCityState,
}

// ParseFilterTag parses a tag name, case-insensitive.
func ParseFilterTag(s string) (FilterTag, error) {
	up := FilterTag(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range allTags {
		if t == up {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown filter tag %q", s)
}

// supersedes lists, per tag, the weaker tags it replaces.
var supersedes = map[FilterTag][]FilterTag{
	TagFirstname:        {TagFirstnamePartial, TagFirstMiddleName},
	TagFirstnamePartial: {TagFirstMiddleName},
	TagFullSpecialty:    {TagSpecialty, TagSubspecialty},
	TagCityState:        {TagCity, TagState},
}

func supersededBy(stronger, weaker FilterTag) bool {
	for _, t := range supersedes[stronger] {
		if t == weaker {
			return true
		}
	}
	return false
}

// Tags is the ordered set of filters that fired for a candidate.
type Tags []FilterTag

// Has reports whether tag is present.
func (t Tags) Has(tag FilterTag) bool {
	for _, x := range t {
		if x == tag {
			return true
		}
	}
	return false
}

// Add appends tag unless it is present or superseded by a present tag, and
// drops any present tags that tag supersedes.
func (t *Tags) Add(tag FilterTag) {
	for _, x := range *t {
		if x == tag || supersededBy(x, tag) {
			return
		}
	}
	kept := (*t)[:0]
	for _, x := range *t {
		if !supersededBy(tag, x) {
			kept = append(kept, x)
		}
	}
	*t = append(kept, tag)
}

// Remove deletes tag if present.
func (t *Tags) Remove(tag FilterTag) {
	kept := (*t)[:0]
	for _, x := range *t {
		if x != tag {
			kept = append(kept, x)
		}
	}
	*t = kept
}

// Clone returns an independent copy.
func (t Tags) Clone() Tags {
	if t == nil {
		return nil
	}
	return append(Tags(nil), t...)
}

// Strings returns the tag names in order.
func (t Tags) Strings() []string {
	out := make([]string, len(t))
	for i, x := range t {
		out[i] = string(x)
	}
	return out
}

func (t Tags) String() string {
	return strings.Join(t.Strings(), ",")
}
