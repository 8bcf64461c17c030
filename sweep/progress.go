package sweep

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// ProgressSink receives updates as permutations complete. Implementations
// must be safe for concurrent calls from worker goroutines.
type ProgressSink interface {
	Report(completed, total int, bestR *float64)
}

// NopSink discards every report.
type NopSink struct{}

// Report implements ProgressSink by doing nothing.
func (NopSink) Report(completed, total int, bestR *float64) {}

// CounterSink accumulates the number of completed permutations and the best
// radius seen so far, safe for concurrent Report calls.
type CounterSink struct {
	completed int64
	mu        sync.Mutex
	bestR     *float64
}

// Report records one completed permutation.
func (c *CounterSink) Report(completed, total int, bestR *float64) {
	atomic.AddInt64(&c.completed, 1)
	if bestR == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bestR == nil || *bestR < *c.bestR {
		r := *bestR
		c.bestR = &r
	}
}

// Completed returns the number of permutations reported so far.
func (c *CounterSink) Completed() int {
	return int(atomic.LoadInt64(&c.completed))
}

// BestRadius returns the lowest radius reported so far, or nil if none.
func (c *CounterSink) BestRadius() *float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bestR
}

// BarSink renders a single-line textual progress bar to stdout, overwriting
// itself with a carriage return the way a terminal progress indicator does.
type BarSink struct {
	mu sync.Mutex
}

// Report prints the current completion fraction and best radius to stdout.
func (b *BarSink) Report(completed, total int, bestR *float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pct := 100.0
	if total > 0 {
		pct = 100 * float64(completed) / float64(total)
	}
	if bestR != nil {
		fmt.Fprintf(os.Stdout, "\rsweep: %d/%d (%.0f%%) best R=%.4f", completed, total, pct, *bestR)
	} else {
		fmt.Fprintf(os.Stdout, "\rsweep: %d/%d (%.0f%%)", completed, total, pct)
	}
	if completed == total {
		fmt.Fprintln(os.Stdout)
	}
}
