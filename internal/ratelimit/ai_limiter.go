// Package ratelimit caps outbound AI completion calls for cost control.
// Every chat turn, estimate, plan, and scoring call costs real money; the
// limiter bounds spend per minute, hour, and day plus concurrent calls.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Rejection reasons returned by Acquire.
var (
	ErrMinuteLimitExceeded     = errors.New("minute AI call limit exceeded")
	ErrHourLimitExceeded       = errors.New("hour AI call limit exceeded")
	ErrDayLimitExceeded        = errors.New("day AI call limit exceeded")
	ErrConcurrentLimitExceeded = errors.New("concurrent AI call limit exceeded")
)

// AILimiterConfig bounds outbound completion calls.
type AILimiterConfig struct {
	MaxPerMinute  int
	MaxPerHour    int
	MaxPerDay     int
	MaxConcurrent int
}

// DefaultAILimiterConfig returns the stock cost-control bounds.
func DefaultAILimiterConfig() *AILimiterConfig {
	return &AILimiterConfig{
		MaxPerMinute:  20,
		MaxPerHour:    200,
		MaxPerDay:     1000,
		MaxConcurrent: 8,
	}
}

// AILimiter enforces the configured bounds. All methods are safe for
// concurrent use.
type AILimiter struct {
	mu sync.RWMutex

	maxConcurrent int
	active        int

	minuteBucket *tokenBucket
	hourBucket   *tokenBucket
	dayBucket    *tokenBucket

	totalRequests int64
	totalRejected int64
	lastRejection string

	logger *zap.Logger
}

func NewAILimiter(cfg *AILimiterConfig, logger *zap.Logger) *AILimiter {
	if cfg == nil {
		cfg = DefaultAILimiterConfig()
	}
	now := time.Now()
	return &AILimiter{
		maxConcurrent: cfg.MaxConcurrent,
		minuteBucket:  newTokenBucket(cfg.MaxPerMinute, time.Minute, now),
		hourBucket:    newTokenBucket(cfg.MaxPerHour, time.Hour, now),
		dayBucket:     newTokenBucket(cfg.MaxPerDay, 24*time.Hour, now),
		logger:        logger,
	}
}

// Acquire claims a slot for one AI call. The caller must Release after the
// call completes, success or not.
func (l *AILimiter) Acquire(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.totalRequests++
	now := time.Now()

	if l.active >= l.maxConcurrent {
		l.reject("concurrent limit")
		return ErrConcurrentLimitExceeded
	}
	if !l.minuteBucket.tryAcquire(now) {
		l.reject("minute limit")
		return ErrMinuteLimitExceeded
	}
	if !l.hourBucket.tryAcquire(now) {
		l.minuteBucket.release()
		l.reject("hour limit")
		return ErrHourLimitExceeded
	}
	if !l.dayBucket.tryAcquire(now) {
		l.minuteBucket.release()
		l.hourBucket.release()
		l.reject("day limit")
		return ErrDayLimitExceeded
	}

	l.active++
	return nil
}

// Release frees the concurrency slot claimed by Acquire.
func (l *AILimiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active > 0 {
		l.active--
	}
}

func (l *AILimiter) reject(reason string) {
	l.totalRejected++
	l.lastRejection = reason
	l.logger.Warn("AI call rate limit exceeded",
		zap.String("reason", reason),
		zap.Int64("total_rejected", l.totalRejected),
	)
}

// Stats reports current limiter state for the health endpoint.
type Stats struct {
	Active          int    `json:"active"`
	MaxConcurrent   int    `json:"max_concurrent"`
	MinuteRemaining int    `json:"minute_remaining"`
	HourRemaining   int    `json:"hour_remaining"`
	DayRemaining    int    `json:"day_remaining"`
	TotalRequests   int64  `json:"total_requests"`
	TotalRejected   int64  `json:"total_rejected"`
	LastRejection   string `json:"last_rejection,omitempty"`
}

func (l *AILimiter) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Stats{
		Active:          l.active,
		MaxConcurrent:   l.maxConcurrent,
		MinuteRemaining: l.minuteBucket.remaining(),
		HourRemaining:   l.hourBucket.remaining(),
		DayRemaining:    l.dayBucket.remaining(),
		TotalRequests:   l.totalRequests,
		TotalRejected:   l.totalRejected,
		LastRejection:   l.lastRejection,
	}
}

// tokenBucket is a fixed-window counter that refills when its period ends.
type tokenBucket struct {
	max       int
	period    time.Duration
	tokens    int
	lastReset time.Time
}

func newTokenBucket(maxTokens int, period time.Duration, now time.Time) *tokenBucket {
	return &tokenBucket{max: maxTokens, period: period, tokens: maxTokens, lastReset: now}
}

func (b *tokenBucket) tryAcquire(now time.Time) bool {
	if now.Sub(b.lastReset) >= b.period {
		b.tokens = b.max
		b.lastReset = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (b *tokenBucket) release() {
	if b.tokens < b.max {
		b.tokens++
	}
}

func (b *tokenBucket) remaining() int {
	return b.tokens
}
