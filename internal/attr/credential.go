package attr

import (
	"fmt"
	"strings"
)

// Credential is a covered recipient's professional credential, spelled the
// way Open Payments spells it.
type Credential string

const (
	MedicalDoctor                       Credential = "Medical Doctor"
	DoctorOfDentistry                   Credential = "Doctor of Dentistry"
	DoctorOfOsteopathy                  Credential = "Doctor of Osteopathy"
	DoctorOfOptometry                   Credential = "Doctor of Optometry"
	Chiropractor                        Credential = "Chiropractor"
	DoctorOfPodiatricMedicine           Credential = "Doctor of Podiatric Medicine"
	NursePractitioner                   Credential = "Nurse Practitioner"
	PhysicianAssistant                  Credential = "Physician Assistant"
	CertifiedRegisteredNurseAnesthetist Credential = "Certified Registered Nurse Anesthetist"
	ClinicalNurseSpecialist             Credential = "Clinical Nurse Specialist"
	CertifiedNurseMidwife               Credential = "Certified Nurse-Midwife"
	AnesthesiologistAssistant           Credential = "Anesthesiologist Assistant"
)

// Credentials lists every known credential.
var Credentials = []Credential{
	MedicalDoctor,
	DoctorOfDentistry,
	DoctorOfOsteopathy,
	DoctorOfOptometry,
	Chiropractor,
	DoctorOfPodiatricMedicine,
	NursePractitioner,
	PhysicianAssistant,
	CertifiedRegisteredNurseAnesthetist,
	ClinicalNurseSpecialist,
	CertifiedNurseMidwife,
	AnesthesiologistAssistant,
}

var credentialAliases = map[string]Credential{
	"md":   MedicalDoctor,
	"dds":  DoctorOfDentistry,
	"dmd":  DoctorOfDentistry,
	"do":   DoctorOfOsteopathy,
	"od":   DoctorOfOptometry,
	"dc":   Chiropractor,
	"dpm":  DoctorOfPodiatricMedicine,
	"np":   NursePractitioner,
	"pa":   PhysicianAssistant,
	"pa-c": PhysicianAssistant,
	"crna": CertifiedRegisteredNurseAnesthetist,
	"cns":  ClinicalNurseSpecialist,
	"cnm":  CertifiedNurseMidwife,
	"aa":   AnesthesiologistAssistant,
}

var credentialNames = func() map[string]Credential {
	m := make(map[string]Credential, len(Credentials))
	for _, c := range Credentials {
		m[strings.ToLower(string(c))] = c
	}
	return m
}()

// ParseCredential accepts the full Open Payments spelling or a common
// abbreviation ("MD", "D.O.", "NP"), case-insensitive.
func ParseCredential(s string) (Credential, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := credentialNames[key]; ok {
		return c, nil
	}
	if c, ok := credentialAliases[strings.ReplaceAll(key, ".", "")]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown credential %q", s)
}

// IsPhysician reports whether the credential is MD or DO.
func (c Credential) IsPhysician() bool {
	return c == MedicalDoctor || c == DoctorOfOsteopathy
}

// SharesCredential reports whether the two lists have any credential in
// common. Empty lists never match.
func SharesCredential(a, b []Credential) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
