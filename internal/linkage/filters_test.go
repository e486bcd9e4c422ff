package linkage

import (
	"testing"

	"github.com/gyeh/conflicted-ids/internal/attr"
)

func TestBank_AppliesFixture(t *testing.T) {
	bank, err := NewBank()
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	c := candidate(testConflicteds()[0], testPayments()[0])
	bank.Apply(c)

	want := "LASTNAME,FIRSTNAME,MIDDLE_INITIAL,MIDDLENAME,CREDENTIAL,SPECIALTY,CITYSTATE"
	if got := c.Filters.String(); got != want {
		t.Errorf("filters = %s, want %s", got, want)
	}
}

func TestNewBank_RejectsUnknownAndDuplicate(t *testing.T) {
	if _, err := NewBank(TagLastname); err == nil {
		t.Error("LASTNAME should not be registrable")
	}
	if _, err := NewBank(TagCity, TagCity); err == nil {
		t.Error("duplicate registration should fail")
	}
	bank, err := NewBank(TagCity, TagFirstname)
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	if order := bank.Order(); len(order) != 2 || order[0] != TagCity {
		t.Errorf("unexpected order %v", order)
	}
}

func TestFirstnamePartial_SkippedWhenExact(t *testing.T) {
	c := candidate(ConflictedPerson{FirstName: "John"}, PaymentRecord{FirstName: "john"})
	c.Filters.Add(TagFirstname)
	if matchFirstnamePartial(c) {
		t.Error("partial should not fire when FIRSTNAME already set")
	}

	c = candidate(ConflictedPerson{FirstName: "Joey"}, PaymentRecord{FirstName: "Joe"})
	if !matchFirstnamePartial(c) {
		t.Error("Joe/Joey should be a partial match")
	}
}

func TestFirstMiddleName(t *testing.T) {
	person := ConflictedPerson{FirstName: "Robert", MiddleNames: [2]string{"", "James"}}

	if !matchFirstMiddleName(candidate(person, PaymentRecord{FirstName: "James"})) {
		t.Error("payment first name equal to conflicted middle name should match")
	}
	if !matchFirstMiddleName(candidate(person, PaymentRecord{FirstName: "R", MiddleName: "Robert"})) {
		t.Error("payment middle name equal to conflicted first name should match")
	}

	c := candidate(person, PaymentRecord{FirstName: "James"})
	c.Filters.Add(TagFirstnamePartial)
	if matchFirstMiddleName(c) {
		t.Error("should not fire when a first-name tag is present")
	}
}

func TestMiddleInitial(t *testing.T) {
	person := ConflictedPerson{
		MiddleInitials: [2]string{"", "e"},
		MiddleNames:    [2]string{"Quinn", ""},
	}
	if !matchMiddleInitial(candidate(person, PaymentRecord{MiddleName: "Edward"})) {
		t.Error("first letter of payment middle should match initial 2")
	}
	if !matchMiddleInitial(candidate(person, PaymentRecord{MiddleName: "Q."})) {
		t.Error("payment initial should match conflicted middle name's initial")
	}
	if matchMiddleInitial(candidate(person, PaymentRecord{MiddleName: "Zed"})) {
		t.Error("unexpected match")
	}
	if matchMiddleInitial(candidate(person, PaymentRecord{})) {
		t.Error("empty payment middle should never match")
	}
}

func TestNullNeverMatches(t *testing.T) {
	empty := candidate(ConflictedPerson{}, PaymentRecord{})
	for tag, fn := range predicates {
		if fn(empty) {
			t.Errorf("%s fired on empty records", tag)
		}
	}
}

func TestSpecialtyFilters(t *testing.T) {
	person := ConflictedPerson{Specialties: []attr.SpecialtyPair{
		{Specialty: "Internal Medicine", Subspecialty: "Rheumatology"},
	}}
	payment := PaymentRecord{Specialties: []attr.SpecialtyPair{
		{Specialty: "Internal Medicine", Subspecialty: "Rheumatology"},
	}}

	bank, err := NewBank(TagSpecialty, TagSubspecialty, TagFullSpecialty)
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	c := candidate(person, payment)
	bank.Apply(c)
	if got := c.Filters.String(); got != "LASTNAME,FULLSPECIALTY" {
		t.Errorf("filters = %s", got)
	}
}

func TestCityStateFilters(t *testing.T) {
	person := ConflictedPerson{CityStates: []attr.CityState{{City: "Los Angeles", State: "NV"}}}
	payment := PaymentRecord{CityStates: []attr.CityState{{City: "los angeles", State: "California"}}}

	bank, err := NewBank()
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	c := candidate(person, payment)
	bank.Apply(c)
	if got := c.Filters.String(); got != "LASTNAME,CITY" {
		t.Errorf("filters = %s", got)
	}
}
