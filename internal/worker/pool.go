package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gyeh/conflicted-ids/internal/linkage"
	"github.com/gyeh/conflicted-ids/internal/progress"
)

// Pool resolves people concurrently.
type Pool struct {
	Workers  int
	Resolver *linkage.Resolver
	Progress progress.Manager
}

// Run resolves every person and returns the outcomes in input order. When
// ctx is cancelled, people not yet started are left with a zero Outcome
// (nil Person) and ctx.Err() is returned alongside the partial results.
func (p *Pool) Run(ctx context.Context, people []*linkage.ConflictedPerson) ([]linkage.Outcome, error) {
	results := make([]linkage.Outcome, len(people))

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	mgr := p.Progress
	if mgr == nil {
		mgr = &progress.NoopManager{}
	}
	tracker := mgr.NewTracker(0, 1, "resolve")
	tracker.SetStage("Resolving")
	defer tracker.Done()

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var done atomic.Int64
	total := int64(len(people))

	for i, person := range people {
		wg.Add(1)
		go func(idx int, person *linkage.ConflictedPerson) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			// Checked again: the semaphore and Done can both be ready.
			if ctx.Err() != nil {
				return
			}
			results[idx] = p.Resolver.Resolve(person)
			tracker.SetProgress(done.Add(1), total)
		}(i, person)
	}

	wg.Wait()
	return results, ctx.Err()
}
