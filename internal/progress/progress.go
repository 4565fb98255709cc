// Package progress renders a single-line progress indicator on stderr
// for the outer k sweep, so a long-running search over a large K still
// gives the operator a sense of where it is.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Bar tracks how many of a known total number of k values have
// resolved and renders a bar plus a rate estimate to stderr.
type Bar struct {
	total     int64
	completed int64
	width     int
	startTime time.Time
	label     string
	mu        sync.Mutex
}

// New creates a bar for a sweep of the given size. label is shown as a
// prefix, e.g. "k".
func New(total int64, label string) *Bar {
	return &Bar{
		total:     total,
		width:     40,
		label:     label,
		startTime: time.Now(),
	}
}

// Set records the current completed count (k, in the sweep's case) and
// redraws the bar.
func (b *Bar) Set(completed int64) {
	b.mu.Lock()
	b.completed = completed
	b.render()
	b.mu.Unlock()
}

// Finish draws the bar at 100% and moves to a fresh line.
func (b *Bar) Finish() {
	b.mu.Lock()
	b.completed = b.total
	b.render()
	fmt.Fprintln(os.Stderr)
	b.mu.Unlock()
}

func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	percent := float64(b.completed) / float64(b.total)
	if percent > 1.0 {
		percent = 1.0
	}
	filled := int(percent * float64(b.width))

	elapsed := time.Since(b.startTime)
	rate := float64(b.completed) / elapsed.Seconds()

	fmt.Fprintf(os.Stderr, "\r%s: [%s%s] %3.0f%% | %d/%d | %s/s",
		b.label,
		strings.Repeat("=", filled),
		strings.Repeat(" ", b.width-filled),
		percent*100,
		b.completed,
		b.total,
		formatRate(rate),
	)
}

func formatRate(rate float64) string {
	switch {
	case rate >= 1_000_000:
		return fmt.Sprintf("%.1fM", rate/1_000_000)
	case rate >= 1_000:
		return fmt.Sprintf("%.1fK", rate/1_000)
	default:
		return fmt.Sprintf("%.1f", rate)
	}
}
