// Package circuitbreaker provides a circuit breaker for outbound service calls.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // normal operation, requests go through
	StateOpen                  // requests fail fast
	StateHalfOpen              // probing whether the service has recovered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned when the circuit rejects a request without attempting it.
var ErrOpen = errors.New("circuit breaker is open")

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of consecutive failures before opening.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive half-open successes
	// needed to close.
	SuccessThreshold int
	// OpenTimeout is how long the circuit stays open before probing recovery.
	OpenTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

// CircuitBreaker tracks consecutive outbound failures and fails fast while
// the downstream service is unhealthy.
type CircuitBreaker struct {
	mu sync.RWMutex

	name   string
	config *Config
	logger *zap.Logger

	state                State
	consecutiveFailures  int
	consecutiveSuccesses int
	lastFailure          time.Time

	totalRequests int64
	totalFailures int64
	totalRejected int64
}

// New creates a circuit breaker.
func New(name string, config *Config, logger *zap.Logger) *CircuitBreaker {
	if config == nil {
		config = DefaultConfig()
	}
	return &CircuitBreaker{
		name:   name,
		config: config,
		logger: logger,
		state:  StateClosed,
	}
}

// Execute runs fn under the breaker's protection. Returns ErrOpen without
// calling fn when the circuit is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}
	err := fn(ctx)
	cb.afterRequest(err)
	return err
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.totalRequests++

	if cb.state == StateOpen {
		if time.Since(cb.lastFailure) < cb.config.OpenTimeout {
			cb.totalRejected++
			return ErrOpen
		}
		cb.setState(StateHalfOpen)
		cb.logger.Info("circuit breaker transitioning to half-open",
			zap.String("name", cb.name),
		)
	}
	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	// Client-side cancellation says nothing about downstream health.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	if err != nil {
		cb.recordFailure(err)
		return
	}
	cb.recordSuccess()
}

func (cb *CircuitBreaker) recordFailure(err error) {
	cb.totalFailures++
	cb.consecutiveFailures++
	cb.consecutiveSuccesses = 0
	cb.lastFailure = time.Now()

	switch cb.state {
	case StateClosed:
		if cb.consecutiveFailures >= cb.config.FailureThreshold {
			cb.setState(StateOpen)
			cb.logger.Warn("circuit breaker opened",
				zap.String("name", cb.name),
				zap.Int("consecutive_failures", cb.config.FailureThreshold),
				zap.Error(err),
			)
		}
	case StateHalfOpen:
		// A single failed probe reopens the circuit.
		cb.setState(StateOpen)
		cb.lastFailure = time.Now()
		cb.logger.Warn("circuit breaker reopened from half-open",
			zap.String("name", cb.name),
			zap.Error(err),
		)
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.consecutiveFailures = 0
	cb.consecutiveSuccesses++

	if cb.state == StateHalfOpen && cb.consecutiveSuccesses >= cb.config.SuccessThreshold {
		cb.setState(StateClosed)
		cb.logger.Info("circuit breaker closed", zap.String("name", cb.name))
	}
}

// setState changes state and resets consecutive counters.
func (cb *CircuitBreaker) setState(s State) {
	cb.state = s
	cb.consecutiveFailures = 0
	cb.consecutiveSuccesses = 0
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// IsOpen returns true if the circuit is open.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state == StateOpen
}

// Stats holds circuit breaker statistics.
type Stats struct {
	Name                string `json:"name"`
	State               string `json:"state"`
	TotalRequests       int64  `json:"total_requests"`
	TotalFailures       int64  `json:"total_failures"`
	TotalRejected       int64  `json:"total_rejected"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
}

// Stats returns current statistics.
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return Stats{
		Name:                cb.name,
		State:               cb.state.String(),
		TotalRequests:       cb.totalRequests,
		TotalFailures:       cb.totalFailures,
		TotalRejected:       cb.totalRejected,
		ConsecutiveFailures: cb.consecutiveFailures,
	}
}

// Reset forces the circuit closed. Administrative use only.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	old := cb.state
	cb.setState(StateClosed)
	cb.logger.Info("circuit breaker reset",
		zap.String("name", cb.name),
		zap.String("from_state", old.String()),
	)
}
