// Package fetch opens input files from local disk, HTTP(S) or S3,
// transparently decompressing gzip.
package fetch

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/klauspost/pgzip"
)

var httpClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	},
	Timeout: time.Hour,
}

// retryBase is the first backoff delay; attempt n waits retryBase * 2^n.
var retryBase = time.Second

// ObjectOpener opens an object by S3 URL. cloud.S3Client implements it.
type ObjectOpener interface {
	OpenURL(ctx context.Context, url string) (io.ReadCloser, error)
}

// Options controls how Open resolves a location.
type Options struct {
	// S3 serves s3:// locations. Nil means s3:// is rejected.
	S3 ObjectOpener
	// StdGzip selects compress/gzip over pgzip.
	StdGzip bool
	// OnProgress, if set, is called with (bytesRead, totalBytes) as the raw
	// stream is consumed. totalBytes is -1 when unknown.
	OnProgress func(read, total int64)
}

// Open returns a reader for location, which may be a local path, an
// http(s) URL or an s3:// URL. Locations ending in ".gz", and HTTP
// responses with a gzip Content-Type, are decompressed.
func Open(ctx context.Context, location string, opts Options) (io.ReadCloser, error) {
	var (
		rc      io.ReadCloser
		total   int64 = -1
		gzipped = strings.HasSuffix(location, ".gz")
		err     error
	)
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		var resp *http.Response
		resp, err = DownloadHTTP(ctx, location)
		if err == nil {
			rc, total = resp.Body, resp.ContentLength
			gzipped = gzipped || isGzipContentType(resp.Header.Get("Content-Type"))
		}
	case strings.HasPrefix(location, "s3://"):
		if opts.S3 == nil {
			return nil, fmt.Errorf("%s: no S3 client configured", location)
		}
		rc, err = opts.S3.OpenURL(ctx, location)
	default:
		var f *os.File
		f, err = os.Open(location)
		if err == nil {
			rc = f
			if info, statErr := f.Stat(); statErr == nil {
				total = info.Size()
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", location, err)
	}

	var r io.Reader = rc
	if opts.OnProgress != nil {
		r = &progressReader{reader: rc, total: total, callback: opts.OnProgress}
	}
	if !gzipped {
		return &readCloser{Reader: r, closers: []io.Closer{rc}}, nil
	}

	gz, err := NewGzipReader(r, opts.StdGzip)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("gzip reader for %s: %w", location, err)
	}
	return &readCloser{Reader: gz, closers: []io.Closer{gz, rc}}, nil
}

// DownloadHTTP performs an HTTP GET with retries and returns the response.
// Client errors are not retried. Caller closes resp.Body.
func DownloadHTTP(ctx context.Context, url string) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * retryBase
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if reqErr != nil {
			return nil, fmt.Errorf("creating request: %w", reqErr)
		}

		resp, err = httpClient.Do(req)
		if err != nil {
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}
		resp.Body.Close()
		err = fmt.Errorf("HTTP %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, err
		}
	}

	return nil, fmt.Errorf("download failed after retries: %w", err)
}

func isGzipContentType(ct string) bool {
	ct, _, _ = strings.Cut(ct, ";")
	switch strings.TrimSpace(strings.ToLower(ct)) {
	case "application/gzip", "application/x-gzip":
		return true
	}
	return false
}

// NewGzipReader returns a gzip reader: pgzip by default, compress/gzip when
// useStdGzip is set.
func NewGzipReader(r io.Reader, useStdGzip bool) (io.ReadCloser, error) {
	if useStdGzip {
		return gzip.NewReader(r)
	}
	return pgzip.NewReader(r)
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type progressReader struct {
	reader   io.Reader
	read     int64
	total    int64
	callback func(read, total int64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)
		pr.callback(pr.read, pr.total)
	}
	return n, err
}
