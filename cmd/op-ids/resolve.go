package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gyeh/conflicted-ids/internal/attr"
	"github.com/gyeh/conflicted-ids/internal/config"
	"github.com/gyeh/conflicted-ids/internal/ingest"
	"github.com/gyeh/conflicted-ids/internal/linkage"
	"github.com/gyeh/conflicted-ids/internal/npi"
	"github.com/gyeh/conflicted-ids/internal/output"
	"github.com/gyeh/conflicted-ids/internal/store"
	"github.com/gyeh/conflicted-ids/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newResolveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve each conflicted person to an Open Payments profile ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log, err := newLogger(v)
			if err != nil {
				return err
			}
			defer log.Sync()
			return runResolve(cmd.Context(), cfg, v, log)
		},
	}

	f := cmd.Flags()
	f.String(config.KeyRoster, "", "Conflicted roster: JSON array or NDJSON (local, http(s):// or s3://, optionally .gz)")
	f.StringSlice(config.KeyPayments, nil, "Payment records as NDJSON (repeatable)")
	f.StringArray(config.KeyPaymentsCSV, nil, "Raw Open Payments CSV as category=path, category one of general, ownership, research (repeatable)")
	f.StringP(config.KeyOutput, "o", "results.json", "Report path ('-' for stdout, s3://bucket/key to upload)")
	f.String(config.KeyDB, "", "SQLite master ledger to upsert results into")
	f.Bool(config.KeySkipKnown, false, "Skip people already matched in --db")
	f.Int(config.KeyWorkers, 4, "Number of concurrent resolvers")
	f.StringSlice(config.KeyFilters, nil, "Filter bank order (default: all filters)")
	f.Bool(config.KeyPhysiciansOnly, false, "Keep only MD/DO rows from raw CSVs")
	f.Bool(config.KeyEnrich, false, "Attach NPI registry details for matched rows and suggestions for NOLASTNAME people")
	f.Int(config.KeyYear, 0, "Program year for CSV rows without a Program_Year column")
	return cmd
}

func runResolve(ctx context.Context, cfg *config.Config, v *viper.Viper, log *zap.SugaredLogger) error {
	start := time.Now()
	runID := output.NewRunID()
	log = log.With("run_id", runID)

	var db *store.Store
	var skip map[int64]struct{}
	if cfg.DBPath != "" {
		var err error
		if db, err = store.Open(ctx, cfg.DBPath); err != nil {
			return err
		}
		defer db.Close()
		if cfg.SkipKnown {
			if skip, err = db.MatchedPKs(ctx); err != nil {
				return err
			}
			log.Infow("loaded known matches", "count", len(skip))
		}
	}

	locations := append([]string{cfg.Roster}, cfg.Payments...)
	for _, in := range cfg.PaymentsCSV {
		locations = append(locations, in.Location)
	}
	mgr := newProgress(v)
	ld, err := newLoader(ctx, cfg.Region, cfg.StdGzip, mgr, locations, cfg.Output)
	if err != nil {
		return err
	}

	roster, err := ld.roster(ctx, cfg.Roster)
	if err != nil {
		mgr.Wait()
		return err
	}
	var payments []linkage.PaymentRecord
	for _, loc := range cfg.Payments {
		recs, err := ld.paymentsNDJSON(ctx, loc, nil)
		if err != nil {
			mgr.Wait()
			return err
		}
		payments = append(payments, recs...)
	}
	for _, in := range cfg.PaymentsCSV {
		recs, stats, err := ld.paymentsCSV(ctx, in, ingest.CSVOptions{PhysiciansOnly: cfg.PhysiciansOnly, Year: cfg.Year})
		if err != nil {
			mgr.Wait()
			return err
		}
		log.Infow("loaded payments csv", "category", in.Category, "rows", stats.Rows, "kept", stats.Kept, "skipped", stats.Skipped)
		payments = append(payments, recs...)
	}
	rows := len(payments)
	payments = ingest.UniquePayments(payments)
	log.Infow("inputs loaded", "people", len(roster), "payment_rows", rows, "profiles", len(payments))

	bank, err := linkage.NewBank(cfg.Filters...)
	if err != nil {
		mgr.Wait()
		return err
	}
	pool := &worker.Pool{
		Workers:  cfg.Workers,
		Resolver: linkage.NewResolver(linkage.NewIndex(payments), bank, log),
		Progress: mgr,
	}
	l, err := worker.RunBatch(ctx, worker.BatchConfig{Pool: pool, Roster: roster, Skip: skip, Log: log})
	mgr.Wait()
	if err != nil {
		if isCancelled(err) {
			s := l.Stats()
			fmt.Fprintf(os.Stderr, "Cancelled with %d of %d people still pending; nothing written\n", s.Pending, s.Submitted)
		}
		return err
	}

	report := output.NewReport(runID, output.Params{
		Roster:         cfg.Roster,
		Payments:       locations[1:],
		Filters:        filterNames(bank.Order()),
		PhysiciansOnly: cfg.PhysiciansOnly,
		SkipKnown:      cfg.SkipKnown,
		Workers:        cfg.Workers,
	}, l)

	if cfg.Enrich {
		client := npi.NewClient()
		report.Registry = client.Enrich(ctx, report.Matched, log)
		report.Suggestions = client.Suggest(ctx, report.Unmatched, soleStates(roster), string(linkage.NoLastName), log)
	}

	if db != nil {
		if err := db.Save(ctx, runID, l.Tables()); err != nil {
			return err
		}
	}
	if err := writeJSON(ctx, cfg.Output, report, ld); err != nil {
		return err
	}

	s := report.Stats
	fmt.Fprintf(os.Stderr, "\nResolve complete: %d people, %d matched, %d unmatched (%d no last name, %d unfilterable) in %.1fs\n",
		s.Submitted, s.Matched, s.Unmatched, s.NoLastName, s.Unfilterable, time.Since(start).Seconds())
	if cfg.Output != "-" {
		fmt.Fprintf(os.Stderr, "Results written to %s\n", cfg.Output)
	}
	return nil
}

func filterNames(tags []linkage.FilterTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

// soleStates maps each person with exactly one known state to its
// two-letter code, to narrow registry name searches.
func soleStates(people []linkage.ConflictedPerson) map[int64]string {
	out := make(map[int64]string)
	for _, p := range people {
		state := ""
		for _, cs := range p.CityStates {
			abbrev := attr.StateAbbrev(cs.State)
			if abbrev == "" {
				continue
			}
			if state != "" && state != abbrev {
				state = ""
				break
			}
			state = abbrev
		}
		if state != "" {
			out[p.ProviderPK] = state
		}
	}
	return out
}
