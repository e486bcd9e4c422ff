package attr

import (
	"errors"
	"testing"
)

func TestNewSpecialtyPair_RejectsEmpty(t *testing.T) {
	if _, err := NewSpecialtyPair("", " "); !errors.Is(err, ErrEmptySpecialtyPair) {
		t.Fatalf("expected ErrEmptySpecialtyPair, got %v", err)
	}
}

func TestMatchSpecialtyText(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Internal Medicine", "internal medicine", true},
		{"Internal Medicine", "Internal Medicine/Pediatrics", true},
		{"Family Medicine", "Internal Medicine", false},
		{"Medicine", "Sports Medicine", false},
		{"Hematology & Oncology", "Ear Nose & Throat", false},
		{"Pediatric Cardiology", "Cardiology", true},
		{"Cardiology", "Pediatric Cardiology Surgery", true},
		{"Pediatrics", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		if got := MatchSpecialtyText(c.a, c.b); got != c.want {
			t.Errorf("MatchSpecialtyText(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
		if got := MatchSpecialtyText(c.b, c.a); got != c.want {
			t.Errorf("MatchSpecialtyText(%q, %q) = %v, want %v (symmetry)", c.b, c.a, got, c.want)
		}
	}
}

func TestSpecialtyPair_Matches(t *testing.T) {
	conflicted := SpecialtyPair{Specialty: "Pediatrics", Subspecialty: "Gastroenterology"}
	payment := SpecialtyPair{Specialty: "Pediatrics", Subspecialty: "Neonatology"}

	if !conflicted.MatchesSpecialty(payment) {
		t.Error("specialty should match")
	}
	if conflicted.MatchesSubspecialty(payment) {
		t.Error("subspecialty should not match")
	}
	if conflicted.Matches(payment) {
		t.Error("full pair should not match")
	}

	noSub := SpecialtyPair{Specialty: "Pediatrics"}
	if noSub.Matches(SpecialtyPair{Specialty: "Pediatrics"}) {
		t.Error("full match requires both subspecialties")
	}
}

func TestParseSpecialty(t *testing.T) {
	pt, pair, err := ParseSpecialty("Allopathic & Osteopathic Physicians|Internal Medicine|Rheumatology")
	if err != nil {
		t.Fatalf("ParseSpecialty: %v", err)
	}
	if pt != "Allopathic & Osteopathic Physicians" {
		t.Errorf("provider type = %q", pt)
	}
	if pair.Specialty != "Internal Medicine" || pair.Subspecialty != "Rheumatology" {
		t.Errorf("pair = %+v", pair)
	}

	_, pair, err = ParseSpecialty("Allopathic & Osteopathic Physicians|Family Medicine")
	if err != nil || pair.Subspecialty != "" || pair.Specialty != "Family Medicine" {
		t.Errorf("two-part string: %+v, %v", pair, err)
	}

	if _, _, err := ParseSpecialty("Allopathic & Osteopathic Physicians"); !errors.Is(err, ErrEmptySpecialtyPair) {
		t.Errorf("expected ErrEmptySpecialtyPair, got %v", err)
	}
}
