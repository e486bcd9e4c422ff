// Package progress reports how far each stage of a run has got, as mpb bars
// on a terminal or as throttled log lines elsewhere.
package progress

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Tracker tracks one stage of a run (loading an input, resolving people).
type Tracker interface {
	SetStage(stage string)
	SetProgress(current, total int64)
	SetCounter(name string, value int64)
	Done()
}

// Manager creates trackers and receives the ledger totals.
type Manager interface {
	NewTracker(index, total int, name string) Tracker
	Wait()
	SetOverallStats(matched, unmatched, pending int)
}

// MPBManager implements Manager with mpb bars. The ledger totals are
// printed once the bars finish.
type MPBManager struct {
	container *mpb.Progress
	totals    atomic.Value
}

// NewMPBManager creates a new mpb-based progress manager.
func NewMPBManager() *MPBManager {
	m := &MPBManager{container: mpb.New(mpb.WithWidth(60))}
	m.totals.Store("")
	return m
}

// NewTracker adds a bar for one stage.
func (m *MPBManager) NewTracker(index, total int, name string) Tracker {
	t := &mpbTracker{}
	t.stage.Store("")
	t.counter.Store("")
	t.bar = m.container.AddBar(100,
		mpb.PrependDecorators(
			decor.Name(fmt.Sprintf("[%d/%d] %s ", index+1, total, name), decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncSpace),
			decor.Any(func(decor.Statistics) string {
				return " " + t.stage.Load().(string) + t.counter.Load().(string)
			}),
		),
	)
	return t
}

// Wait waits for all progress bars to finish, then prints the totals.
func (m *MPBManager) Wait() {
	m.container.Wait()
	if s := m.totals.Load().(string); s != "" {
		fmt.Fprintln(os.Stderr, s)
	}
}

func (m *MPBManager) SetOverallStats(matched, unmatched, pending int) {
	m.totals.Store(fmt.Sprintf("matched %d  unmatched %d  pending %d", matched, unmatched, pending))
}

type mpbTracker struct {
	bar     *mpb.Bar
	stage   atomic.Value
	counter atomic.Value
}

func (t *mpbTracker) SetStage(stage string) {
	t.stage.Store(stage)
	t.counter.Store("")
	t.bar.SetCurrent(0)
}

func (t *mpbTracker) SetProgress(current, total int64) {
	if total > 0 {
		pct := int64(float64(current) / float64(total) * 100)
		t.bar.SetCurrent(pct)
	}
}

func (t *mpbTracker) SetCounter(name string, value int64) {
	t.counter.Store(fmt.Sprintf(" (%s: %s)", name, humanCount(value)))
}

func (t *mpbTracker) Done() {
	t.bar.SetCurrent(100)
	t.bar.Abort(false)
}

// NoopManager records the totals and prints nothing.
type NoopManager struct {
	Matched   atomic.Int32
	Unmatched atomic.Int32
	Pending   atomic.Int32
}

func (m *NoopManager) NewTracker(index, total int, name string) Tracker {
	return noopTracker{}
}

func (m *NoopManager) Wait() {}

func (m *NoopManager) SetOverallStats(matched, unmatched, pending int) {
	m.Matched.Store(int32(matched))
	m.Unmatched.Store(int32(unmatched))
	m.Pending.Store(int32(pending))
}

type noopTracker struct{}

func (noopTracker) SetStage(stage string)               {}
func (noopTracker) SetProgress(current, total int64)    {}
func (noopTracker) SetCounter(name string, value int64) {}
func (noopTracker) Done()                               {}
