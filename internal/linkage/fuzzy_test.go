package linkage

import "testing"

func TestStrInStr(t *testing.T) {
	cases := []struct {
		query, target string
		want          bool
	}{
		{"Joe", "Joey", true},
		{"Jon", "John", true},    // insertion
		{"Jhn", "John", true},    // deletion
		{"Jahn", "John", true},   // substitution
		{"Jahn", "Johnny", true}, // substitution inside a longer name
		{"(Bob)", "Bobby", true},
		{"[Liz]", "Elizabeth", true},
		{"Mraia", "Maria", false}, // transposition is two edits
		{"Jane", "John", false},
		{"Al", "Alan", true},
		{"Ax", "Alan", false},
		{"Bo", "Joe", false}, // short queries need an exact substring
		{"", "John", false},
		{"John", "", false},
		{"()", "John", false},
	}
	for _, c := range cases {
		if got := StrInStr(c.query, c.target); got != c.want {
			t.Errorf("StrInStr(%q, %q) = %v, want %v", c.query, c.target, got, c.want)
		}
	}
}

func TestStrInStr_CaseInsensitive(t *testing.T) {
	if !StrInStr("JOHN", "john") {
		t.Error("expected case-insensitive match")
	}
}
