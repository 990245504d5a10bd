package ratelimit

import "testing"

func TestNewWeightedLimiterDefaultsMaxWeight(t *testing.T) {
	wl := NewWeightedLimiter(0)
	if wl.MaxWeight() != DefaultMaxWeight {
		t.Fatalf("expected default max weight %d, got %d", DefaultMaxWeight, wl.MaxWeight())
	}
}

func TestAllowConsumesBurstCapacity(t *testing.T) {
	wl := NewWeightedLimiter(1200)
	if !wl.Allow(1200) {
		t.Fatal("expected first burst-sized request to be allowed")
	}
	if wl.Allow(1200) {
		t.Fatal("expected immediate second burst-sized request to be denied")
	}
}

func TestUpdateWeightAndCurrentWeight(t *testing.T) {
	wl := NewWeightedLimiter(1200)
	wl.UpdateWeight(42)
	if wl.CurrentWeight() != 42 {
		t.Fatalf("expected current weight 42, got %d", wl.CurrentWeight())
	}
	wl.UpdateWeight(-1) // negative updates are ignored
	if wl.CurrentWeight() != 42 {
		t.Fatalf("expected current weight unchanged by negative update, got %d", wl.CurrentWeight())
	}
}

func TestWaitTimeNonPositiveWeightIsZero(t *testing.T) {
	wl := NewWeightedLimiter(1200)
	if got := wl.WaitTime(0); got != 0 {
		t.Fatalf("expected zero wait time for zero weight, got %v", got)
	}
}

func TestResetClearsCurrentWeight(t *testing.T) {
	wl := NewWeightedLimiter(1200)
	wl.UpdateWeight(500)
	wl.Reset()
	if wl.CurrentWeight() != 0 {
		t.Fatalf("expected current weight 0 after reset, got %d", wl.CurrentWeight())
	}
	if !wl.Allow(1200) {
		t.Fatal("expected full burst capacity available after reset")
	}
}

func TestStatsReflectsAvailable(t *testing.T) {
	wl := NewWeightedLimiter(1000)
	wl.UpdateWeight(300)
	stats := wl.Stats()
	if stats.MaxWeight != 1000 || stats.CurrentWeight != 300 || stats.Available != 700 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
