package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/gyeh/conflicted-ids/internal/ledger"
	"github.com/gyeh/conflicted-ids/internal/linkage"
)

func testLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	people := []linkage.ConflictedPerson{{ProviderPK: 7, FirstName: "Dave", LastName: "Ebalt"}}
	if err := l.Submit(people); err != nil {
		t.Fatal(err)
	}
	pending := l.Pending()
	out := linkage.Outcome{Person: pending[0], State: linkage.StateUnmatched, Reason: linkage.NoLastName}
	if err := l.Record(out); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestWriteReport_File(t *testing.T) {
	runID := NewRunID()
	if _, err := uuid.Parse(runID); err != nil {
		t.Fatalf("run id %q is not a uuid: %v", runID, err)
	}
	report := NewReport(runID, Params{Roster: "roster.json", Workers: 2}, testLedger(t))

	path := filepath.Join(t.TempDir(), "results.json")
	if err := WriteReport(context.Background(), path, report, nil); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	for _, key := range []string{"run_id", "params", "stats", "matched", "unmatched", "unmatched_options"} {
		if _, ok := got[key]; !ok {
			t.Errorf("report missing %q", key)
		}
	}
	if string(got["matched"]) != "[]" {
		t.Errorf("matched = %s, want []", got["matched"])
	}
	if _, ok := got["registry"]; ok {
		t.Error("empty registry should be omitted")
	}
}

type fakeUploader struct {
	url string
	v   any
}

func (f *fakeUploader) UploadJSON(_ context.Context, url string, v any) error {
	f.url, f.v = url, v
	return nil
}

func TestWriteReport_S3(t *testing.T) {
	report := NewReport("run", Params{}, testLedger(t))
	up := &fakeUploader{}
	if err := WriteReport(context.Background(), "s3://bucket/run.json", report, up); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if up.url != "s3://bucket/run.json" || up.v != any(report) {
		t.Errorf("unexpected upload %+v", up)
	}
	if err := WriteReport(context.Background(), "s3://bucket/run.json", report, nil); err == nil {
		t.Error("expected error without an uploader")
	}
}
