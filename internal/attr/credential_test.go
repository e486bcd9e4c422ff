package attr

import "testing"

func TestParseCredential(t *testing.T) {
	cases := map[string]Credential{
		"Medical Doctor": MedicalDoctor,
		"MD":             MedicalDoctor,
		"d.o.":           DoctorOfOsteopathy,
		"NP":             NursePractitioner,
		"certified nurse-midwife": CertifiedNurseMidwife,
	}
	for in, want := range cases {
		got, err := ParseCredential(in)
		if err != nil {
			t.Errorf("ParseCredential(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCredential(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseCredential("Wizard"); err == nil {
		t.Error("expected error for unknown credential")
	}
}

func TestSharesCredential(t *testing.T) {
	if !SharesCredential([]Credential{MedicalDoctor, PhysicianAssistant}, []Credential{PhysicianAssistant}) {
		t.Error("expected overlap")
	}
	if SharesCredential(nil, []Credential{MedicalDoctor}) {
		t.Error("empty list should never match")
	}
	if !DoctorOfOsteopathy.IsPhysician() || NursePractitioner.IsPhysician() {
		t.Error("IsPhysician wrong")
	}
}
