package reconnect

import (
	"context"
	"errors"
	"testing"
	"time"

	mderrors "github.com/sydowma/mdgateway/pkg/errors"
)

func TestBackoffRespectsCapAndJitterBounds(t *testing.T) {
	cfg := Config{Base: time.Second, Cap: 30 * time.Second, RetryCap: 10}

	// At a high attempt number the exponential term should have already
	// saturated at cap, so delay must stay within [cap*0.5, cap*1.5].
	d := Backoff(cfg, 10)
	if d < cfg.Cap/2 || d > cfg.Cap+cfg.Cap/2 {
		t.Fatalf("Backoff(10) = %v, want within [%v, %v]", d, cfg.Cap/2, cfg.Cap+cfg.Cap/2)
	}

	// At attempt 1, base*2^1 = 2s, jittered into [1s, 3s].
	d1 := Backoff(cfg, 1)
	if d1 < time.Second || d1 > 3*time.Second {
		t.Fatalf("Backoff(1) = %v, want within [1s, 3s]", d1)
	}
}

func TestSupervisorResetsAttemptOnSuccess(t *testing.T) {
	s := New("BINANCE", Config{Base: time.Millisecond, Cap: 5 * time.Millisecond, RetryCap: 10})
	s.Start()

	err := s.ScheduleReconnect(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("ScheduleReconnect: %v", err)
	}
	if s.Attempt() != 0 {
		t.Fatalf("Attempt() = %d, want 0 after successful reset", s.Attempt())
	}
	if s.State() != StateRunning {
		t.Fatalf("State() = %v, want RUNNING", s.State())
	}
}

func TestSupervisorExhaustsRetryCap(t *testing.T) {
	s := New("OKX", Config{Base: time.Millisecond, Cap: 5 * time.Millisecond, RetryCap: 3})
	s.Start()

	failingConnect := func(ctx context.Context) error { return errors.New("dial failed") }

	var lastErr error
	for i := 0; i < 4; i++ {
		lastErr = s.ScheduleReconnect(context.Background(), failingConnect)
	}

	var exhausted *mderrors.RetriesExhaustedError
	if !errors.As(lastErr, &exhausted) {
		t.Fatalf("expected RetriesExhaustedError on the 4th failure, got %v", lastErr)
	}
	if s.State() != StateTerminated {
		t.Fatalf("State() = %v, want TERMINATED", s.State())
	}
}

func TestSupervisorStopCancelsPendingAttempt(t *testing.T) {
	s := New("BYBIT", Config{Base: time.Hour, Cap: time.Hour, RetryCap: 10})
	s.Start()
	s.Stop()

	err := s.ScheduleReconnect(context.Background(), func(ctx context.Context) error {
		t.Fatal("connect should not be called after Stop")
		return nil
	})
	if err == nil {
		t.Fatal("expected error after Stop")
	}
}
