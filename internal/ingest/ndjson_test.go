package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/gyeh/conflicted-ids/internal/attr"
	"github.com/gyeh/conflicted-ids/internal/linkage"
	simdjson "github.com/minio/simdjson-go"
)

const paymentsNDJSON = `{"profile_id":1,"npi":1234567890,"first_name":"John","middle_name":"Alpha","last_name":"Doe","credentials":["MD"],"specialties":[{"specialty":"Pediatrics","subspecialty":"Neonatology"}],"citystates":[{"city":"New York","state":"NY"}],"year":2023}

{"profile_id":"2","first_name":"Jane","last_name":"Smith","credentials":["Doctor of Osteopathy"],"citystates":[{"city":"Los Angeles","state":null}]}
`

func checkPayments(t *testing.T, recs []linkage.PaymentRecord) {
	t.Helper()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	doe := recs[0]
	if doe.ProfileID != "1" || doe.NPI != 1234567890 || doe.Year != 2023 {
		t.Errorf("doe identity wrong: %+v", doe)
	}
	if len(doe.Credentials) != 1 || doe.Credentials[0] != attr.MedicalDoctor {
		t.Errorf("doe credentials wrong: %v", doe.Credentials)
	}
	if len(doe.Specialties) != 1 || doe.Specialties[0].Subspecialty != "Neonatology" {
		t.Errorf("doe specialties wrong: %v", doe.Specialties)
	}
	smith := recs[1]
	if smith.ProfileID != "2" || smith.NPI != 0 || smith.Year != 0 {
		t.Errorf("smith identity wrong: %+v", smith)
	}
	if len(smith.CityStates) != 1 || smith.CityStates[0] != (attr.CityState{City: "Los Angeles"}) {
		t.Errorf("smith citystates wrong: %v", smith.CityStates)
	}
}

func TestReadPayments_Std(t *testing.T) {
	var n int
	recs, err := readPaymentsStd(strings.NewReader(paymentsNDJSON), func() { n++ })
	if err != nil {
		t.Fatalf("readPaymentsStd: %v", err)
	}
	checkPayments(t, recs)
	if n != 2 {
		t.Errorf("callback called %d times, want 2", n)
	}
}

func TestReadPayments_Simd(t *testing.T) {
	if !simdjson.SupportedCPU() {
		t.Skip("simdjson not supported on this CPU")
	}
	recs, err := readPaymentsSimd(strings.NewReader(paymentsNDJSON), nil)
	if err != nil {
		t.Fatalf("readPaymentsSimd: %v", err)
	}
	checkPayments(t, recs)
}

func TestReadPayments_RejectsEmptyCityState(t *testing.T) {
	bad := `{"profile_id":"9","last_name":"Doe","citystates":[{"city":"","state":""}]}` + "\n"
	_, err := readPaymentsStd(strings.NewReader(bad), nil)
	if !errors.Is(err, attr.ErrEmptyCityState) {
		t.Fatalf("expected ErrEmptyCityState, got %v", err)
	}
	if simdjson.SupportedCPU() {
		_, err = readPaymentsSimd(strings.NewReader(bad), nil)
		if !errors.Is(err, attr.ErrEmptyCityState) {
			t.Fatalf("simd: expected ErrEmptyCityState, got %v", err)
		}
	}
}
