package ratelimit

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrLimitExceeded is returned when a key has spent its window budget.
var ErrLimitExceeded = errors.New("rate limit exceeded")

// Limiter rejects requests once a key exceeds maxRequests within the
// current fixed window. Keys are expected to be prefixed per protected
// operation so distinct operations never share a budget.
//
// The limiter fails open: a broken counter store is logged and the request
// admitted, so rate limiting can never take down the paths it protects.
type Limiter struct {
	store       CounterStore
	maxRequests int64
	window      time.Duration
	message     string
	logger      *zap.Logger
}

// NewLimiter creates a new Limiter.
func NewLimiter(store CounterStore, maxRequests int, window time.Duration, message string, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:       store,
		maxRequests: int64(maxRequests),
		window:      window,
		message:     message,
		logger:      logger,
	}
}

// Allow checks and consumes one request slot for key. It returns
// ErrLimitExceeded when the window budget is spent.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		l.logger.Warn("counter store unavailable, admitting request",
			zap.String("key", key), zap.Error(err))
		return nil
	}
	if count > l.maxRequests {
		return ErrLimitExceeded
	}
	return nil
}

// Message is the configured rejection text surfaced to clients.
func (l *Limiter) Message() string {
	return l.message
}
