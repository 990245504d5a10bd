package circuit

import (
	"errors"
	"testing"
	"time"
)

func TestBreakerExecuteTracksSuccessAndFailure(t *testing.T) {
	b := NewBreaker("test", DefaultConfig())

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boom := errors.New("boom")
	if err := b.Execute(func() error { return boom }); err != boom {
		t.Fatalf("expected underlying error to pass through, got %v", err)
	}

	stats := b.Stats()
	if stats.TotalRequests != 2 || stats.TotalSuccesses != 1 || stats.TotalFailures != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker("test", Config{MaxFailures: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		_ = b.Execute(func() error { return boom })
	}

	if !b.IsOpen() {
		t.Fatalf("expected breaker to be open after %d consecutive failures, state=%s", 2, b.State())
	}

	err := b.Execute(func() error { return nil })
	if err == nil {
		t.Fatal("expected circuit breaker error while open")
	}
}

func TestBreakerExecuteWithResultReturnsValue(t *testing.T) {
	b := NewBreaker("test", DefaultConfig())

	result, err := b.ExecuteWithResult(func() (any, error) { return 42, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(int) != 42 {
		t.Fatalf("expected 42, got %v", result)
	}
}

func TestBreakerResetClearsOpenState(t *testing.T) {
	b := NewBreaker("test", Config{MaxFailures: 1, SuccessThreshold: 1, OpenTimeout: time.Minute})
	_ = b.Execute(func() error { return errors.New("boom") })
	if !b.IsOpen() {
		t.Fatal("expected breaker open before reset")
	}

	b.Reset()
	if !b.IsClosed() {
		t.Fatalf("expected breaker closed after reset, got %s", b.State())
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateClosed:   "closed",
		StateHalfOpen: "half-open",
		StateOpen:     "open",
		State(99):     "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("State(%d).String() = %s, want %s", s, got, want)
		}
	}
}
