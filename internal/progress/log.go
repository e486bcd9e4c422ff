package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogManager implements Manager with throttled line output for non-TTY
// runs (CI, containers, redirected stderr).
type LogManager struct {
	mu       sync.Mutex
	out      io.Writer
	interval time.Duration
	now      func() time.Time
}

// NewLogManager writes to stderr.
func NewLogManager() *LogManager {
	return &LogManager{out: os.Stderr, interval: 20 * time.Second, now: time.Now}
}

func (m *LogManager) NewTracker(index, total int, name string) Tracker {
	return &logTracker{
		mgr:   m,
		index: index,
		total: total,
		name:  name,
		start: m.now(),
	}
}

func (m *LogManager) Wait() {}

func (m *LogManager) SetOverallStats(matched, unmatched, pending int) {
	m.log(fmt.Sprintf("matched %d  unmatched %d  pending %d", matched, unmatched, pending))
}

func (m *LogManager) log(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.out, "%s %s\n", m.now().Format("15:04:05"), msg)
}

type logTracker struct {
	mgr     *LogManager
	index   int
	total   int
	name    string
	start   time.Time
	stage   string
	lastLog time.Time
}

func (t *logTracker) log(msg string) {
	t.mgr.log(fmt.Sprintf("[%d/%d] %s  %s", t.index+1, t.total, t.name, msg))
}

func (t *logTracker) SetStage(stage string) {
	t.stage = stage
	t.lastLog = time.Time{}
	t.log(stage)
}

func (t *logTracker) throttled() bool {
	now := t.mgr.now()
	if now.Sub(t.lastLog) < t.mgr.interval {
		return true
	}
	t.lastLog = now
	return false
}

func (t *logTracker) SetProgress(current, total int64) {
	if t.throttled() {
		return
	}
	if total > 0 {
		pct := float64(current) / float64(total) * 100
		t.log(fmt.Sprintf("%s  %s / %s (%.0f%%)", t.stage, humanCount(current), humanCount(total), pct))
	} else if current > 0 {
		t.log(fmt.Sprintf("%s  %s", t.stage, humanCount(current)))
	}
}

func (t *logTracker) SetCounter(name string, value int64) {
	if t.throttled() {
		return
	}
	t.log(fmt.Sprintf("%s  %s: %s", t.stage, name, humanCount(value)))
}

func (t *logTracker) Done() {
	elapsed := t.mgr.now().Sub(t.start).Truncate(time.Second)
	t.log(fmt.Sprintf("Finished in %s", elapsed))
}

// humanCount formats n with thousands separators.
func humanCount(n int64) string {
	if n < 0 {
		return "-" + humanCount(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	pre := len(s) % 3
	if pre > 0 {
		out = append(out, s[:pre]...)
	}
	for i := pre; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
