package linkage

import (
	"regexp"
	"strings"
)

// Index groups payment rows by normalized last name. It is built once per
// batch and read concurrently by resolvers.
type Index struct {
	byLast map[string][]*PaymentRecord
	all    []*PaymentRecord
}

// NewIndex indexes payments. The index keeps pointers into the slice, which
// must not be modified afterwards.
func NewIndex(payments []PaymentRecord) *Index {
	ix := &Index{
		byLast: make(map[string][]*PaymentRecord),
		all:    make([]*PaymentRecord, 0, len(payments)),
	}
	for i := range payments {
		p := &payments[i]
		ix.all = append(ix.all, p)
		if key := normalizeName(p.LastName); key != "" {
			ix.byLast[key] = append(ix.byLast[key], p)
		}
	}
	return ix
}

// Len returns the number of indexed payment rows.
func (ix *Index) Len() int {
	return len(ix.all)
}

var lastNameSeparators = regexp.MustCompile(`-|\s+`)

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lastNameTokens(last string) []string {
	var tokens []string
	for _, tok := range lastNameSeparators.Split(last, -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Assemble returns one candidate per payment row sharing person's last
// name. An exact case-insensitive match wins; failing that, compound names
// are split on hyphens and whitespace and rows containing every token are
// preferred over rows containing any of them. Each candidate starts with the
// LASTNAME tag. A nil result means no row shares the last name.
func Assemble(person *ConflictedPerson, ix *Index) []*Candidate {
	last := normalizeName(person.LastName)
	if last == "" {
		return nil
	}

	rows := ix.byLast[last]
	if len(rows) == 0 {
		rows = tokenMatches(last, ix.all)
	}
	if len(rows) == 0 {
		return nil
	}

	cands := make([]*Candidate, len(rows))
	for i, p := range rows {
		cands[i] = &Candidate{Person: person, Payment: p, Filters: Tags{TagLastname}}
	}
	return cands
}

func tokenMatches(last string, all []*PaymentRecord) []*PaymentRecord {
	tokens := lastNameTokens(last)
	if len(tokens) == 0 {
		return nil
	}

	var anyRows, allRows []*PaymentRecord
	for _, p := range all {
		name := normalizeName(p.LastName)
		if name == "" {
			continue
		}
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(name, tok) {
				hits++
			}
		}
		if hits > 0 {
			anyRows = append(anyRows, p)
		}
		if hits == len(tokens) {
			allRows = append(allRows, p)
		}
	}
	if len(allRows) > 0 {
		return allRows
	}
	return anyRows
}
