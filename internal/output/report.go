// Package output writes the JSON run report.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gyeh/conflicted-ids/internal/ledger"
	"github.com/gyeh/conflicted-ids/internal/npi"
)

// Params echoes the inputs and settings a report was produced from.
type Params struct {
	Roster         string   `json:"roster"`
	Payments       []string `json:"payments"`
	Filters        []string `json:"filters"`
	PhysiciansOnly bool     `json:"physicians_only,omitempty"`
	SkipKnown      bool     `json:"skip_known,omitempty"`
	Workers        int      `json:"workers"`
}

// Report is the full result of one resolve run.
type Report struct {
	RunID       string                      `json:"run_id"`
	GeneratedAt time.Time                   `json:"generated_at"`
	Params      Params                      `json:"params"`
	Stats       ledger.Stats                `json:"stats"`
	Matched     []ledger.MatchedRow         `json:"matched"`
	Unmatched   []ledger.UnmatchedRow       `json:"unmatched"`
	Options     []ledger.OptionRow          `json:"unmatched_options"`
	Registry    map[int64]*npi.ProviderInfo `json:"registry,omitempty"`
	Suggestions []npi.Suggestion            `json:"suggestions,omitempty"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// NewReport builds a report from a finished ledger.
func NewReport(runID string, params Params, l *ledger.Ledger) *Report {
	t := l.Tables()
	return &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Params:      params,
		Stats:       l.Stats(),
		Matched:     t.Matched,
		Unmatched:   t.Unmatched,
		Options:     t.Options,
	}
}

// Uploader writes JSON to an s3:// location. cloud.S3Client implements it.
type Uploader interface {
	UploadJSON(ctx context.Context, url string, v any) error
}

// WriteReport writes report as indented JSON to path. "-" means stdout;
// s3:// paths go through up, which may be nil otherwise.
func WriteReport(ctx context.Context, path string, report any, up Uploader) error {
	if strings.HasPrefix(path, "s3://") {
		if up == nil {
			return fmt.Errorf("%s: no S3 client configured", path)
		}
		return up.UploadJSON(ctx, path, report)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}

	if path == "-" {
		_, err = os.Stdout.Write(data)
		fmt.Fprintln(os.Stdout)
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
