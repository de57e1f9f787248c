// Package progress reports the advance of an optimization run.
package progress

import (
	"fmt"
	"sync"
	"time"
)

// Estimator computes the remaining time of a run from the fraction of steps done.
// The total may be revised while the run is in progress.
type Estimator struct {
	mu    sync.Mutex
	start time.Time
	total int64
	now   func() time.Time
}

// EstimatorOption configures an Estimator
type EstimatorOption func(*Estimator)

// WithClock replaces time.Now
func WithClock(now func() time.Time) EstimatorOption {
	return func(e *Estimator) { e.now = now }
}

// NewEstimator creates an estimator for a run started at start
func NewEstimator(start time.Time, total int64, options ...EstimatorOption) *Estimator {
	e := &Estimator{start: start, total: total, now: time.Now}
	for _, option := range options {
		option(e)
	}
	return e
}

// SetTotalIterations revises the number of steps of the run
func (e *Estimator) SetTotalIterations(total int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.total = total
}

// TotalIterations returns the number of steps of the run
func (e *Estimator) TotalIterations() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

// Elapsed returns the wall time since the start
func (e *Estimator) Elapsed() time.Duration {
	return e.now().Sub(e.start)
}

// TimeLeft returns the remaining time as HH:MM:SS:
// elapsed * (total - completed) / max(completed, 1)
func (e *Estimator) TimeLeft(completed int64) string {
	total := e.TotalIterations()
	if completed >= total {
		return FormatDuration(0)
	}

	elapsed := e.Elapsed()
	left := time.Duration(float64(elapsed) * float64(total-completed) / float64(max(completed, 1)))
	return FormatDuration(left)
}

// FormatDuration renders d as HH:MM:SS, hours are not wrapped at 24
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
