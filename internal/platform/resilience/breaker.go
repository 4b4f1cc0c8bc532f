package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenProbes   int
}

// Breaker fails fast after a streak of upstream failures so a run against a
// dead API does not spend a full timeout on every remaining request.
// A nil *Breaker or a disabled one allows everything.
type Breaker struct {
	mu sync.Mutex

	enabled     bool
	threshold   int
	openTimeout time.Duration
	maxProbes   int

	state         CircuitState
	failureStreak int
	openedAt      time.Time
	probesOut     int
	probesPassed  int
	now           func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 15 * time.Second
	}
	if cfg.HalfOpenProbes < 1 {
		cfg.HalfOpenProbes = 1
	}
	return &Breaker{
		enabled:     cfg.Enabled,
		threshold:   cfg.FailureThreshold,
		openTimeout: cfg.OpenTimeout,
		maxProbes:   cfg.HalfOpenProbes,
		state:       CircuitStateClosed,
		now:         time.Now,
	}
}

func (b *Breaker) Allow() error {
	if b == nil || !b.enabled {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.openTimeout {
			return ErrCircuitOpen
		}
		b.state = CircuitStateHalfOpen
		b.probesOut = 0
		b.probesPassed = 0
	}
	if b.state == CircuitStateHalfOpen {
		if b.probesOut >= b.maxProbes {
			return ErrCircuitOpen
		}
		b.probesOut++
	}
	return nil
}

// Record reports the outcome of an allowed call. failed should be true only
// for failures that say something about upstream health.
func (b *Breaker) Record(failed bool) {
	if b == nil || !b.enabled {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		if !failed {
			b.failureStreak = 0
			return
		}
		b.failureStreak++
		if b.failureStreak >= b.threshold {
			b.trip()
		}
	case CircuitStateHalfOpen:
		if b.probesOut > 0 {
			b.probesOut--
		}
		if failed {
			b.trip()
			return
		}
		b.probesPassed++
		if b.probesPassed >= b.maxProbes && b.probesOut == 0 {
			b.state = CircuitStateClosed
			b.failureStreak = 0
		}
	case CircuitStateOpen:
		if failed {
			b.openedAt = b.now()
		}
	}
}

func (b *Breaker) State() CircuitState {
	if b == nil || !b.enabled {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *Breaker) trip() {
	b.state = CircuitStateOpen
	b.openedAt = b.now()
	b.probesOut = 0
	b.probesPassed = 0
}
