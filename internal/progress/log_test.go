package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogManager(buf *bytes.Buffer, clock *time.Time) *LogManager {
	return &LogManager{out: buf, interval: 20 * time.Second, now: func() time.Time { return *clock }}
}

func TestLogTracker_Throttles(t *testing.T) {
	var buf bytes.Buffer
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := newTestLogManager(&buf, &clock)

	tr := m.NewTracker(0, 2, "payments")
	tr.SetStage("loading")
	tr.SetProgress(10, 100)
	tr.SetProgress(20, 100) // throttled
	clock = clock.Add(21 * time.Second)
	tr.SetProgress(50, 100)
	tr.Done()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "[1/2] payments  loading") {
		t.Errorf("stage line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "(50%)") {
		t.Errorf("progress line = %q", lines[2])
	}
	if !strings.Contains(lines[3], "Finished in 21s") {
		t.Errorf("done line = %q", lines[3])
	}
}

func TestLogManager_SetOverallStats(t *testing.T) {
	var buf bytes.Buffer
	clock := time.Now()
	m := newTestLogManager(&buf, &clock)
	m.SetOverallStats(3, 1, 0)
	if !strings.Contains(buf.String(), "matched 3  unmatched 1  pending 0") {
		t.Errorf("got %q", buf.String())
	}
}

func TestNoopManager(t *testing.T) {
	m := &NoopManager{}
	m.NewTracker(0, 1, "x").SetCounter("people", 5)
	m.SetOverallStats(2, 1, 4)
	if m.Matched.Load() != 2 || m.Unmatched.Load() != 1 || m.Pending.Load() != 4 {
		t.Errorf("unexpected totals %d %d %d", m.Matched.Load(), m.Unmatched.Load(), m.Pending.Load())
	}
}

func TestHumanCount(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4500: "-4,500"}
	for n, want := range cases {
		if got := humanCount(n); got != want {
			t.Errorf("humanCount(%d) = %q, want %q", n, got, want)
		}
	}
}
