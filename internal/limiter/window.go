// Package limiter provides the admission limiters for chunk translation:
// a sliding-window rate limit and a fixed concurrency ceiling.
package limiter

import (
	"sync"
	"time"
)

// compactAfter bounds how many stamps may accumulate before Record prunes
// expired entries. Pruning is purely a memory concern; Available excludes
// expired stamps whether or not they have been pruned yet.
const compactAfter = 256

// RateWindow keeps a log of admission timestamps and answers how many more
// admissions fit inside the trailing window. Timestamps are supplied by the
// caller, so tests can drive the window with a synthetic clock.
type RateWindow struct {
	mu     sync.Mutex
	window time.Duration
	stamps []time.Time
}

func NewRateWindow(window time.Duration) *RateWindow {
	return &RateWindow{window: window}
}

// Record logs one admission at t. Timestamps are expected to be
// non-decreasing in insertion order.
func (w *RateWindow) Record(t time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stamps = append(w.stamps, t)
	if len(w.stamps) >= compactAfter {
		w.compactLocked(t)
	}
}

// Available returns how many admissions remain under limit within the
// window ending at now, clamped at zero.
func (w *RateWindow) Available(now time.Time, limit int) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	live := 0
	for _, t := range w.stamps {
		if now.Sub(t) < w.window {
			live++
		}
	}

	remaining := limit - live
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Len reports the current log size, including not-yet-pruned expired
// entries. Diagnostic only.
func (w *RateWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.stamps)
}

// compactLocked drops the expired prefix of the log. Stamps are
// non-decreasing, so everything before the first live entry is expired.
func (w *RateWindow) compactLocked(now time.Time) {
	first := len(w.stamps)
	for i, t := range w.stamps {
		if now.Sub(t) < w.window {
			first = i
			break
		}
	}
	if first > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[first:]...)
	}
}
