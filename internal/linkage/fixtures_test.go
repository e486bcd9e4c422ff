package linkage

import "github.com/gyeh/conflicted-ids/internal/attr"

func testConflicteds() []ConflictedPerson {
	return []ConflictedPerson{
		{
			ProviderPK:     1,
			FirstName:      "John",
			LastName:       "Doe",
			MiddleInitials: [2]string{"A", ""},
			MiddleNames:    [2]string{"Alpha", ""},
			Credentials:    []attr.Credential{attr.MedicalDoctor},
			Specialties:    []attr.SpecialtyPair{{Specialty: "Pediatrics", Subspecialty: "Gastroenterology"}},
			CityStates:     []attr.CityState{{City: "New York", State: "NY"}},
		},
		{
			ProviderPK:     2,
			FirstName:      "Judd",
			LastName:       "Smith",
			MiddleInitials: [2]string{"E", ""},
			MiddleNames:    [2]string{"", "Echo"},
			Credentials:    []attr.Credential{attr.DoctorOfOsteopathy},
			Specialties:    []attr.SpecialtyPair{{Specialty: "Family Medicine"}},
			CityStates:     []attr.CityState{{City: "Los Angeles", State: "NV"}},
		},
		{
			ProviderPK:     3,
			FirstName:      "Joey",
			LastName:       "Johnson",
			MiddleInitials: [2]string{"C", ""},
			Credentials:    []attr.Credential{attr.MedicalDoctor},
			Specialties:    []attr.SpecialtyPair{{Specialty: "Internal Medicine"}},
			CityStates:     []attr.CityState{{City: "Chicago", State: "IL"}},
		},
		{
			ProviderPK:     4,
			FirstName:      "Dave",
			LastName:       "Ebalt",
			MiddleInitials: [2]string{"Z", ""},
			MiddleNames:    [2]string{"Clark", ""},
			Credentials:    []attr.Credential{attr.MedicalDoctor},
			Specialties: []attr.SpecialtyPair{
				{Specialty: "Internal Medicine", Subspecialty: "Rheumatology"},
				{Specialty: "Internal Medicine", Subspecialty: "Chief Resident"},
			},
			CityStates: []attr.CityState{{City: "Saint Paul", State: "MN"}},
		},
	}
}

func testPayments() []PaymentRecord {
	return []PaymentRecord{
		{
			ProfileID:   "1",
			FirstName:   "John",
			MiddleName:  "Alpha",
			LastName:    "Doe",
			Credentials: []attr.Credential{attr.MedicalDoctor},
			Specialties: []attr.SpecialtyPair{{Specialty: "Pediatrics", Subspecialty: "Neonatology"}},
			CityStates:  []attr.CityState{{City: "New York", State: "NY"}},
		},
		{
			ProfileID:   "2",
			FirstName:   "Jane",
			MiddleName:  "Edward",
			LastName:    "Smith",
			Credentials: []attr.Credential{attr.DoctorOfOsteopathy},
			Specialties: []attr.SpecialtyPair{{Specialty: "Surgery"}},
			CityStates:  []attr.CityState{{City: "Los Angeles", State: "CA"}},
		},
		{
			ProfileID:   "3",
			FirstName:   "Joe",
			LastName:    "Johnson",
			Credentials: []attr.Credential{attr.PhysicianAssistant},
			Specialties: []attr.SpecialtyPair{{Specialty: "Internal Medicine"}},
			CityStates:  []attr.CityState{{City: "Rochester", State: "IL"}},
		},
	}
}

func newTestResolver(t interface{ Fatalf(string, ...any) }, payments []PaymentRecord) *Resolver {
	bank, err := NewBank()
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	return NewResolver(NewIndex(payments), bank, nil)
}

func candidate(person ConflictedPerson, payment PaymentRecord) *Candidate {
	return &Candidate{Person: &person, Payment: &payment, Filters: Tags{TagLastname}}
}
