package worker

import (
	"context"
	"fmt"

	"github.com/gyeh/conflicted-ids/internal/ledger"
	"github.com/gyeh/conflicted-ids/internal/linkage"
	"go.uber.org/zap"
)

// BatchConfig describes one resolution batch.
type BatchConfig struct {
	Pool   *Pool
	Roster []linkage.ConflictedPerson
	// Skip holds provider_pks settled in an earlier run; they are not
	// submitted.
	Skip map[int64]struct{}
	// Ledger to record into. Nil starts a new one. People it already knows
	// are not submitted again.
	Ledger *ledger.Ledger
	Log    *zap.SugaredLogger
}

// RunBatch submits the roster, resolves everyone pending and records each
// outcome in roster order. A ledger invariant violation aborts the batch.
// On cancellation the ledger is returned with the unresolved people still
// pending.
func RunBatch(ctx context.Context, cfg BatchConfig) (*ledger.Ledger, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	l := cfg.Ledger
	if l == nil {
		l = ledger.New()
	}

	fresh := make([]linkage.ConflictedPerson, 0, len(cfg.Roster))
	seen := make(map[int64]bool, len(cfg.Roster))
	var skipped, repeated int
	for _, p := range cfg.Roster {
		switch {
		case seen[p.ProviderPK]:
			log.Warnw("duplicate provider_pk in roster, keeping the first", "provider_pk", p.ProviderPK)
			continue
		case l.Known(p.ProviderPK):
			repeated++
			continue
		}
		seen[p.ProviderPK] = true
		if _, ok := cfg.Skip[p.ProviderPK]; ok {
			skipped++
			continue
		}
		fresh = append(fresh, p)
	}
	if err := l.Submit(fresh); err != nil {
		return l, fmt.Errorf("submitting roster: %w", err)
	}
	log.Infow("batch submitted", "roster", len(cfg.Roster), "submitted", len(fresh),
		"skipped_known", skipped, "already_in_ledger", repeated)

	pending := l.Pending()
	outcomes, runErr := cfg.Pool.Run(ctx, pending)

	for _, out := range outcomes {
		if out.Person == nil {
			continue
		}
		if err := l.Record(out); err != nil {
			return l, fmt.Errorf("recording provider_pk %d: %w", out.Person.ProviderPK, err)
		}
		if cfg.Pool.Progress != nil {
			s := l.Stats()
			cfg.Pool.Progress.SetOverallStats(s.Matched, s.Unmatched, s.Pending)
		}
	}
	if err := l.Check(); err != nil {
		return l, err
	}

	s := l.Stats()
	log.Infow("batch finished", "matched", s.Matched, "unmatched", s.Unmatched,
		"no_last_name", s.NoLastName, "unfilterable", s.Unfilterable, "pending", s.Pending)
	if runErr != nil {
		return l, fmt.Errorf("resolving: %w", runErr)
	}
	return l, nil
}
