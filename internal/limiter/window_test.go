package limiter

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRateWindowEmpty(t *testing.T) {
	w := NewRateWindow(time.Minute)
	if got := w.Available(epoch, 20); got != 20 {
		t.Errorf("empty window: got %d, want 20", got)
	}
}

func TestRateWindowCountsLiveStamps(t *testing.T) {
	w := NewRateWindow(time.Minute)
	for i := 0; i < 5; i++ {
		w.Record(epoch.Add(time.Duration(i) * time.Second))
	}
	if got := w.Available(epoch.Add(5*time.Second), 20); got != 15 {
		t.Errorf("got %d, want 15", got)
	}
}

func TestRateWindowClampsAtZero(t *testing.T) {
	w := NewRateWindow(time.Minute)
	for i := 0; i < 30; i++ {
		w.Record(epoch)
	}
	if got := w.Available(epoch, 20); got != 0 {
		t.Errorf("over limit: got %d, want 0", got)
	}
}

func TestRateWindowExpiry(t *testing.T) {
	w := NewRateWindow(time.Minute)
	w.Record(epoch)
	w.Record(epoch.Add(30 * time.Second))

	// Exactly window-old stamps are expired; the comparison is strict.
	if got := w.Available(epoch.Add(time.Minute), 20); got != 19 {
		t.Errorf("at t+60s: got %d, want 19", got)
	}
	if got := w.Available(epoch.Add(2*time.Minute), 20); got != 20 {
		t.Errorf("at t+120s: got %d, want 20", got)
	}
}

func TestRateWindowLazyCompaction(t *testing.T) {
	w := NewRateWindow(time.Minute)

	// Expired stamps stay in the log until the size threshold is crossed.
	for i := 0; i < 200; i++ {
		w.Record(epoch)
	}
	if got := w.Len(); got != 200 {
		t.Fatalf("log size %d before compaction threshold, want 200", got)
	}
	if got := w.Available(epoch.Add(2*time.Minute), 20); got != 20 {
		t.Errorf("expired stamps must not count: got %d, want 20", got)
	}

	// Crossing the threshold with a much later stamp prunes the expired prefix.
	late := epoch.Add(time.Hour)
	for i := 0; i < 60; i++ {
		w.Record(late)
	}
	if got := w.Len(); got >= 200 {
		t.Errorf("log size %d after compaction, expected the expired prefix dropped", got)
	}
	if got := w.Available(late, 100); got != 100-w.Len() {
		t.Errorf("got %d available, want %d", got, 100-w.Len())
	}
}
