package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gyeh/conflicted-ids/internal/cloud"
	"github.com/gyeh/conflicted-ids/internal/config"
	"github.com/gyeh/conflicted-ids/internal/fetch"
	"github.com/gyeh/conflicted-ids/internal/ingest"
	"github.com/gyeh/conflicted-ids/internal/linkage"
	"github.com/gyeh/conflicted-ids/internal/output"
	"github.com/gyeh/conflicted-ids/internal/progress"
)

// loader opens and parses the run's inputs, one progress tracker each.
type loader struct {
	s3      *cloud.S3Client
	stdGzip bool
	mgr     progress.Manager
	total   int
	next    int
}

// newLoader prepares to read inputs. The S3 client is created only
// when one of inputs or extra is an s3:// location.
func newLoader(ctx context.Context, region string, stdGzip bool, mgr progress.Manager, inputs []string, extra ...string) (*loader, error) {
	l := &loader{stdGzip: stdGzip, mgr: mgr, total: len(inputs)}
	if anyS3(append(extra, inputs...)) {
		s3, err := cloud.NewS3Client(ctx, region)
		if err != nil {
			return nil, err
		}
		l.s3 = s3
	}
	return l, nil
}

func anyS3(locations []string) bool {
	for _, loc := range locations {
		if strings.HasPrefix(loc, "s3://") {
			return true
		}
	}
	return false
}

// uploader returns the S3 client for report output, or nil.
func (l *loader) uploader() output.Uploader {
	if l.s3 == nil {
		return nil
	}
	return l.s3
}

func (l *loader) open(ctx context.Context, location, stage string) (io.ReadCloser, progress.Tracker, error) {
	tracker := l.mgr.NewTracker(l.next, l.total, fileName(location))
	l.next++
	tracker.SetStage(stage)

	opts := fetch.Options{
		StdGzip:    l.stdGzip,
		OnProgress: tracker.SetProgress,
	}
	if l.s3 != nil {
		opts.S3 = l.s3
	}
	rc, err := fetch.Open(ctx, location, opts)
	if err != nil {
		tracker.Done()
		return nil, nil, err
	}
	return rc, tracker, nil
}

func (l *loader) roster(ctx context.Context, location string) ([]linkage.ConflictedPerson, error) {
	rc, tracker, err := l.open(ctx, location, "Loading roster")
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	defer tracker.Done()

	people, err := ingest.ReadRoster(rc, func(n int) {
		tracker.SetCounter("people", int64(n))
	})
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", location, err)
	}
	return people, nil
}

func (l *loader) paymentsNDJSON(ctx context.Context, location string, uniques *ingest.Uniques) ([]linkage.PaymentRecord, error) {
	rc, tracker, err := l.open(ctx, location, "Loading payments")
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	defer tracker.Done()

	var n int64
	recs, err := ingest.ReadPaymentsNDJSON(rc, func() {
		n++
		if n%10000 == 0 {
			tracker.SetCounter("records", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("reading payments %s: %w", location, err)
	}
	if uniques != nil {
		for i := range recs {
			uniques.AddRecord(&recs[i])
		}
	}
	return recs, nil
}

func (l *loader) paymentsCSV(ctx context.Context, in config.CSVInput, opts ingest.CSVOptions) ([]linkage.PaymentRecord, ingest.LoadStats, error) {
	rc, tracker, err := l.open(ctx, in.Location, fmt.Sprintf("Loading %s payments", in.Category))
	if err != nil {
		return nil, ingest.LoadStats{}, err
	}
	defer rc.Close()
	defer tracker.Done()

	recs, stats, err := ingest.LoadCSV(rc, in.Category, opts, func(n int) {
		if n%10000 == 0 {
			tracker.SetCounter("rows", int64(n))
		}
	})
	if err != nil {
		return nil, stats, fmt.Errorf("reading %s payments %s: %w", in.Category, in.Location, err)
	}
	return recs, stats, nil
}

// fileName is the last path segment of a location, without query params.
func fileName(location string) string {
	location, _, _ = strings.Cut(location, "?")
	if i := strings.LastIndexAny(location, `/\`); i >= 0 && i < len(location)-1 {
		return location[i+1:]
	}
	return location
}

func writeJSON(ctx context.Context, path string, v any, l *loader) error {
	if err := output.WriteReport(ctx, path, v, l.uploader()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
