// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reliability provides the circuit breaker and retry-with-backoff
// primitives that gate calls to flaky external dependencies (LLM and
// search providers).
package reliability

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// breakerStateGauge exposes every named breaker's numeric state (0 closed,
// 1 open, 2 half-open) for the health endpoint of spec.md §4.5.
var breakerStateGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "aide_circuit_breaker_state",
		Help: "Circuit breaker state: 0=closed, 1=open, 2=half_open.",
	},
	[]string{"breaker"},
)

func init() {
	prometheus.MustRegister(breakerStateGauge)
}

// BreakerState is the circuit breaker's state, exposed numerically (as its
// int value) for a health endpoint.
type BreakerState int

const (
	StateClosed   BreakerState = 0
	StateOpen     BreakerState = 1
	StateHalfOpen BreakerState = 2
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned by Allow/Call when the breaker is rejecting
// calls outright.
var ErrBreakerOpen = errors.New("circuit breaker is open")

// BreakerConfig tunes a CircuitBreaker.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures to trip closed -> open
	SuccessThreshold int           // consecutive successes to close half-open -> closed
	RecoveryTimeout  time.Duration // how long to stay open before probing
}

func (c *BreakerConfig) setDefaults() {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 2
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = 30 * time.Second
	}
}

// CircuitBreaker implements the closed -> open -> half-open -> closed state
// machine of spec.md §4.5. All state transitions and reads are serialized
// under a single mutex, matching the teacher's registry concurrency style.
type CircuitBreaker struct {
	cfg  BreakerConfig
	name string

	mu              sync.Mutex
	state           BreakerState
	failureCount    int
	successCount    int
	lastFailureTime time.Time
}

// NewCircuitBreaker constructs a closed breaker with cfg (defaults applied
// for zero fields), identified by name in the exposed Prometheus gauge.
func NewCircuitBreaker(name string, cfg BreakerConfig) *CircuitBreaker {
	cfg.setDefaults()
	b := &CircuitBreaker{cfg: cfg, name: name, state: StateClosed}
	breakerStateGauge.WithLabelValues(name).Set(float64(StateClosed))
	return b
}

func (b *CircuitBreaker) setStateLocked(s BreakerState) {
	b.state = s
	if b.name != "" {
		breakerStateGauge.WithLabelValues(b.name).Set(float64(s))
	}
}

// State returns the breaker's current numeric state, resolving an open
// breaker whose recovery timeout has elapsed into half-open as a side
// effect — matching the invariant that the breaker is open iff the failure
// count is at threshold AND the recovery timeout hasn't elapsed.
func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maybeTransitionToHalfOpenLocked()
	return b.state
}

func (b *CircuitBreaker) maybeTransitionToHalfOpenLocked() {
	if b.state == StateOpen && time.Since(b.lastFailureTime) >= b.cfg.RecoveryTimeout {
		b.setStateLocked(StateHalfOpen)
		b.successCount = 0
	}
}

// Allow reports whether a call may proceed, transitioning open -> half-open
// first if the recovery timeout has elapsed.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maybeTransitionToHalfOpenLocked()
	return b.state != StateOpen
}

// RecordSuccess reports a successful call. In closed state it resets the
// failure counter; in half-open state, successThreshold consecutive
// successes close the breaker.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failureCount = 0
	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.cfg.SuccessThreshold {
			b.setStateLocked(StateClosed)
			b.failureCount = 0
			b.successCount = 0
		}
	case StateOpen:
		// A success while open shouldn't occur (Allow would have rejected
		// the call); ignore defensively rather than corrupt state.
	}
}

// RecordFailure reports a failed call. In closed state, failureThreshold
// consecutive failures trip the breaker open. Any failure in half-open
// sends it back to open.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailureTime = time.Now()

	switch b.state {
	case StateClosed:
		b.failureCount++
		if b.failureCount >= b.cfg.FailureThreshold {
			b.setStateLocked(StateOpen)
		}
	case StateHalfOpen:
		b.setStateLocked(StateOpen)
		b.successCount = 0
	case StateOpen:
		// already open
	}
}

// Call runs op if the breaker allows it, recording the outcome. Returns
// ErrBreakerOpen without invoking op when the breaker is open.
func (b *CircuitBreaker) Call(op func() error) error {
	if !b.Allow() {
		return ErrBreakerOpen
	}

	err := op()
	if err != nil {
		b.RecordFailure()
		return err
	}

	b.RecordSuccess()
	return nil
}
