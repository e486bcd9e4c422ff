package linkage

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Queries shorter than this need an exact substring instead of the one-edit
// match, so "Bo" does not match "Joe".
const minFuzzyLen = 3

var bracketStripper = strings.NewReplacer("(", "", ")", "", "[", "", "]", "", "{", "", "}", "")

// StrInStr reports whether query occurs in target allowing at most one
// substitution, insertion or deletion. Brackets are stripped from the query
// and the comparison ignores case. A transposition costs two edits and is
// not tolerated on its own. Empty strings never match.
func StrInStr(query, target string) bool {
	q := strings.ToLower(strings.TrimSpace(bracketStripper.Replace(query)))
	tgt := strings.ToLower(strings.TrimSpace(target))
	if q == "" || tgt == "" {
		return false
	}
	if strings.Contains(tgt, q) {
		return true
	}

	qr, tr := []rune(q), []rune(tgt)
	if len(qr) < minFuzzyLen {
		return false
	}
	for size := len(qr) - 1; size <= len(qr)+1; size++ {
		if size > len(tr) {
			break
		}
		for i := 0; i+size <= len(tr); i++ {
			if levenshtein.ComputeDistance(q, string(tr[i:i+size])) <= 1 {
				return true
			}
		}
	}
	return false
}
