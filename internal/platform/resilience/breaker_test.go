package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestBreaker_TripsAndRecovers(t *testing.T) {
	b := NewBreaker(BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenProbes: 1})

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}
	b.Record(true)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	b.Record(true)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}
	b.Record(false)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}
}

func TestBreaker_SuccessResetsStreak(t *testing.T) {
	b := NewBreaker(BreakerConfig{Enabled: true, FailureThreshold: 2})
	b.Record(true)
	b.Record(false)
	b.Record(true)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed, got %s", state)
	}
}

func TestBreaker_DisabledAndNilAllowEverything(t *testing.T) {
	disabled := NewBreaker(BreakerConfig{Enabled: false, FailureThreshold: 1})
	disabled.Record(true)
	if err := disabled.Allow(); err != nil {
		t.Fatalf("disabled breaker must allow: %v", err)
	}

	var nilBreaker *Breaker
	nilBreaker.Record(true)
	if err := nilBreaker.Allow(); err != nil {
		t.Fatalf("nil breaker must allow: %v", err)
	}
}
