package sync

import (
	"context"
	"testing"
	"time"
)

func TestSyncRejectsMissingTimeProvider(t *testing.T) {
	cs := NewClockSync("test", ClockConfig{})
	if err := cs.Sync(); err == nil {
		t.Fatal("expected error when TimeProvider is nil")
	}
}

func TestSyncComputesOffsetWithinTolerance(t *testing.T) {
	cs := NewClockSync("test", ClockConfig{
		MaxOffset: time.Second,
		TimeProvider: func(ctx context.Context) (int64, error) {
			return time.Now().UnixMilli() + 50, nil
		},
	})

	if err := cs.Sync(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cs.IsSynchronized() {
		t.Fatal("expected IsSynchronized() == true after Sync")
	}
	if off := cs.Offset(); off < 0 || off > time.Second {
		t.Fatalf("expected offset within tolerance, got %v", off)
	}
}

func TestSyncReturnsErrorWhenOffsetExceedsMax(t *testing.T) {
	cs := NewClockSync("test", ClockConfig{
		MaxOffset: 10 * time.Millisecond,
		TimeProvider: func(ctx context.Context) (int64, error) {
			return time.Now().UnixMilli() + 5000, nil
		},
	})

	if err := cs.Sync(); err == nil {
		t.Fatal("expected clock sync error for offset beyond max")
	}
}

func TestOffsetZeroBeforeAnySync(t *testing.T) {
	cs := NewClockSync("test", ClockConfig{})
	if cs.IsSynchronized() {
		t.Fatal("expected IsSynchronized() == false before first Sync")
	}
	if cs.Offset() != 0 {
		t.Fatalf("expected zero offset before sync, got %v", cs.Offset())
	}
}

func TestSetTimeProviderIsUsedByNextSync(t *testing.T) {
	cs := NewClockSync("test", ClockConfig{MaxOffset: time.Second})
	cs.SetTimeProvider(func(ctx context.Context) (int64, error) {
		return time.Now().UnixMilli(), nil
	})
	if err := cs.Sync(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
