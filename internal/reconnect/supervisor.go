// Package reconnect implements the venue connection lifecycle's backoff
// and retry policy, independent of any particular transport.
package reconnect

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	mderrors "github.com/sydowma/mdgateway/pkg/errors"
)

// State is one of the supervisor's lifecycle states.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateConnecting
	StateBackingOff
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateConnecting:
		return "CONNECTING"
	case StateBackingOff:
		return "BACKING_OFF"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

const (
	DefaultBase     = time.Second
	DefaultCap      = 30 * time.Second
	DefaultRetryCap = 10
)

// Config tunes the backoff schedule and retry ceiling.
type Config struct {
	Base     time.Duration
	Cap      time.Duration
	RetryCap int
}

// DefaultConfig returns the spec's default backoff parameters: base 1s,
// cap 30s, retry ceiling 10 attempts.
func DefaultConfig() Config {
	return Config{Base: DefaultBase, Cap: DefaultCap, RetryCap: DefaultRetryCap}
}

// Supervisor drives the reconnect state machine for a single venue
// connection. It does not own the transport: ScheduleReconnect calls the
// supplied connect function at each attempt, and the caller detects
// disconnects and calls ScheduleReconnect again.
type Supervisor struct {
	cfg   Config
	venue string

	mu      sync.Mutex
	state   State
	attempt int
}

// New creates a Supervisor for venue, in state IDLE.
func New(venue string, cfg Config) *Supervisor {
	return &Supervisor{cfg: cfg, venue: venue, state: StateIdle}
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attempt returns the current attempt counter (0 once reset by a
// successful connect).
func (s *Supervisor) Attempt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

// Start transitions IDLE -> RUNNING. It is a no-op if already running.
func (s *Supervisor) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		s.state = StateRunning
	}
}

// Reset is called on each successful on-connected event. It returns the
// attempt counter to zero and moves back to RUNNING.
func (s *Supervisor) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt = 0
	if s.state != StateTerminated {
		s.state = StateRunning
	}
}

// Stop cancels any pending scheduled attempt and moves to TERMINATED.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateTerminated
}

// Backoff computes the delay before attempt k (1-indexed), per the
// exponential-with-jitter schedule: min(base*2^k, cap) * rand(0.5, 1.5).
func Backoff(cfg Config, attempt int) time.Duration {
	exp := math.Pow(2, float64(attempt))
	base := float64(cfg.Base) * exp
	capped := math.Min(base, float64(cfg.Cap))
	jitter := 0.5 + rand.Float64()
	return time.Duration(capped * jitter)
}

// ScheduleReconnect is called after a TransportFailed disconnect. It
// blocks for the computed backoff delay (or until ctx is cancelled),
// then calls connect. On success it resets the attempt counter and
// returns nil. On failure it increments the attempt counter and returns
// the connect error, unless the retry cap has been exceeded, in which
// case it transitions to TERMINATED and returns a RetriesExhausted error.
func (s *Supervisor) ScheduleReconnect(ctx context.Context, connect func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.state == StateTerminated {
		s.mu.Unlock()
		return mderrors.NewShutdownRequestedError(s.venue)
	}
	s.attempt++
	attempt := s.attempt
	retryCap := s.cfg.RetryCap
	s.state = StateBackingOff
	s.mu.Unlock()

	if retryCap > 0 && attempt > retryCap {
		s.mu.Lock()
		s.state = StateTerminated
		s.mu.Unlock()
		return mderrors.NewRetriesExhaustedError(s.venue, attempt-1, retryCap, nil)
	}

	delay := Backoff(s.cfg, attempt)
	log.Warn().Str("venue", s.venue).Int("attempt", attempt).Dur("delay", delay).Msg("scheduling reconnect")

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return mderrors.NewShutdownRequestedError(s.venue)
	case <-timer.C:
	}

	s.mu.Lock()
	if s.state == StateTerminated {
		s.mu.Unlock()
		return mderrors.NewShutdownRequestedError(s.venue)
	}
	s.state = StateConnecting
	s.mu.Unlock()

	if err := connect(ctx); err != nil {
		return err
	}

	s.Reset()
	return nil
}
