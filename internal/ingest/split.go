package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danielchalef/jsplit/pkg/jsplit"
)

const (
	bundleRosterKey   = "conflicteds"
	bundlePaymentsKey = "payments"
)

// SplitResult holds the NDJSON files jsplit produced from a bundle.
type SplitResult struct {
	Dir          string
	RosterFiles  []string
	PaymentFiles []string
}

// SplitBundle splits a bundle document (optionally gzipped) into NDJSON
// files, one set per top-level array, so large payment dumps can be read
// line by line.
func SplitBundle(inputPath, outputDir string) (*SplitResult, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating split output dir: %w", err)
	}

	// jsplit prints progress to stdout
	origStdout := os.Stdout
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", os.DevNull, err)
	}
	os.Stdout = devNull
	err = jsplit.Split(inputPath, outputDir, true)
	os.Stdout = origStdout
	devNull.Close()
	if err != nil {
		return nil, fmt.Errorf("splitting %s: %w", inputPath, err)
	}

	return collectSplitFiles(outputDir)
}

func collectSplitFiles(dir string) (*SplitResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading split output dir: %w", err)
	}

	result := &SplitResult{Dir: dir}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		full := filepath.Join(dir, name)
		switch {
		case strings.HasPrefix(name, bundleRosterKey+"_"):
			result.RosterFiles = append(result.RosterFiles, full)
		case strings.HasPrefix(name, bundlePaymentsKey+"_"):
			result.PaymentFiles = append(result.PaymentFiles, full)
		}
	}
	sort.Strings(result.RosterFiles)
	sort.Strings(result.PaymentFiles)

	if len(result.RosterFiles) == 0 && len(result.PaymentFiles) == 0 {
		return nil, fmt.Errorf("no %q or %q arrays found in %s", bundleRosterKey, bundlePaymentsKey, dir)
	}
	return result, nil
}
