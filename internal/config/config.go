// Package config collects run settings from flags, OPIDS_* environment
// variables and an optional YAML file, all through viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gyeh/conflicted-ids/internal/ingest"
	"github.com/gyeh/conflicted-ids/internal/linkage"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. OPIDS_WORKERS.
const EnvPrefix = "OPIDS"

// Viper keys. Flags use the same names.
const (
	KeyRoster         = "roster"
	KeyPayments       = "payments"
	KeyPaymentsCSV    = "payments-csv"
	KeyOutput         = "output"
	KeyDB             = "db"
	KeySkipKnown      = "skip-known"
	KeyWorkers        = "workers"
	KeyFilters        = "filters"
	KeyPhysiciansOnly = "physicians-only"
	KeyEnrich         = "enrich"
	KeyNoProgress     = "no-progress"
	KeyLogLevel       = "log-level"
	KeyLogFormat      = "log-format"
	KeyRegion         = "aws-region"
	KeyYear           = "year"
	KeyStdGzip        = "std-gzip"
)

var (
	ErrNoRoster   = errors.New("a roster is required")
	ErrNoPayments = errors.New("payments are required (--payments or --payments-csv)")
)

// CSVInput is one raw Open Payments file.
type CSVInput struct {
	Category ingest.Category
	Location string
}

// Config holds everything a resolve run needs.
type Config struct {
	Roster         string
	Payments       []string
	PaymentsCSV    []CSVInput
	Output         string
	DBPath         string
	SkipKnown      bool
	Workers        int
	Filters        []linkage.FilterTag
	PhysiciansOnly bool
	Enrich         bool
	NoProgress     bool
	LogLevel       string
	LogFormat      string
	Region         string
	Year           int
	StdGzip        bool
}

// NewViper returns a viper instance with defaults and OPIDS_* environment
// binding ("payments-csv" reads OPIDS_PAYMENTS_CSV).
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOutput, "results.json")
	v.SetDefault(KeyWorkers, 4)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyRegion, "us-east-1")
}

// Load reads and validates a resolve configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Roster:         strings.TrimSpace(v.GetString(KeyRoster)),
		Payments:       nonEmpty(v.GetStringSlice(KeyPayments)),
		Output:         v.GetString(KeyOutput),
		DBPath:         v.GetString(KeyDB),
		SkipKnown:      v.GetBool(KeySkipKnown),
		Workers:        v.GetInt(KeyWorkers),
		PhysiciansOnly: v.GetBool(KeyPhysiciansOnly),
		Enrich:         v.GetBool(KeyEnrich),
		NoProgress:     v.GetBool(KeyNoProgress),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
		Region:         v.GetString(KeyRegion),
		Year:           v.GetInt(KeyYear),
		StdGzip:        v.GetBool(KeyStdGzip),
	}

	if cfg.Roster == "" {
		return nil, ErrNoRoster
	}
	var err error
	if cfg.PaymentsCSV, err = ParseCSVInputs(v.GetStringSlice(KeyPaymentsCSV)); err != nil {
		return nil, err
	}
	if len(cfg.Payments) == 0 && len(cfg.PaymentsCSV) == 0 {
		return nil, ErrNoPayments
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.SkipKnown && cfg.DBPath == "" {
		return nil, errors.New("--skip-known needs --db")
	}
	for _, s := range nonEmpty(v.GetStringSlice(KeyFilters)) {
		tag, err := linkage.ParseFilterTag(s)
		if err != nil {
			return nil, fmt.Errorf("filters: %w", err)
		}
		cfg.Filters = append(cfg.Filters, tag)
	}
	return cfg, nil
}

// ParseCSVInputs parses "category=location" pairs.
func ParseCSVInputs(values []string) ([]CSVInput, error) {
	var out []CSVInput
	for _, s := range nonEmpty(values) {
		name, loc, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(loc) == "" {
			return nil, fmt.Errorf("payments-csv %q: want category=path", s)
		}
		cat, err := ingest.ParseCategory(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("payments-csv %q: %w", s, err)
		}
		out = append(out, CSVInput{Category: cat, Location: strings.TrimSpace(loc)})
	}
	return out, nil
}

// nonEmpty trims values, also splitting comma lists that arrive from
// environment variables as a single string.
func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
