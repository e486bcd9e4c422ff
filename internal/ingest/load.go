package ingest

import (
	"errors"
	"io"

	"github.com/gyeh/conflicted-ids/internal/linkage"
)

// CSVOptions controls LoadCSV.
type CSVOptions struct {
	// PhysiciansOnly drops rows that are not MD/DO (see PhysicianOnly).
	PhysiciansOnly bool
	// Year is used for rows without a Program_Year column.
	Year int
	// Limit stops after this many data rows; zero reads everything.
	Limit int
	// Uniques, if set, accumulates distinct values from every row read,
	// including rows the physician filter drops.
	Uniques *Uniques
}

// LoadStats counts what LoadCSV saw.
type LoadStats struct {
	Rows    int
	Kept    int
	Skipped int
}

// LoadCSV reads a category's detail CSV into payment records. onRow, if
// set, is called with the running row count.
func LoadCSV(r io.Reader, cat Category, opts CSVOptions, onRow func(int)) ([]linkage.PaymentRecord, LoadStats, error) {
	var stats LoadStats

	cr, err := NewCSVReader(r, cat)
	if err != nil {
		return nil, stats, err
	}

	var out []linkage.PaymentRecord
	for opts.Limit == 0 || stats.Rows < opts.Limit {
		raw, err := cr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		stats.Rows++
		if onRow != nil {
			onRow(stats.Rows)
		}
		if opts.Uniques != nil {
			opts.Uniques.Add(raw)
		}
		if opts.PhysiciansOnly && !PhysicianOnly(raw) {
			stats.Skipped++
			continue
		}

		rec, err := Normalize(raw, opts.Year)
		if err != nil {
			return nil, stats, err
		}
		out = append(out, rec)
		stats.Kept++
	}
	return out, stats, nil
}
