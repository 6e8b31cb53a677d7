package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Result is the outcome of one rate-limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

// Store counts requests per identifier within a fixed window. Implementations
// must be safe for concurrent use.
type Store interface {
	// Increment bumps the counter for an identifier, starting a new window if
	// none is active, and returns the count and the window's reset time.
	Increment(ctx context.Context, identifier string, window time.Duration) (count int, resetTime time.Time, err error)
}

// Limiter applies fixed-window limits over a pluggable store: an in-process
// map for single-instance deployments, or Redis when limits must hold across
// instances.
type Limiter struct {
	store  Store
	logger *zap.Logger
}

// NewLimiter builds a Limiter over the given store.
func NewLimiter(store Store, logger *zap.Logger) *Limiter {
	return &Limiter{store: store, logger: logger}
}

// Check counts a request against the identifier's window. The first request
// in a window sets count=1 and resetTime=now+window; once the count reaches
// maxRequests, further requests are rejected until the window resets.
//
// Store failures fail open with a warning: an unreachable limiter store must
// not take down every endpoint behind it.
func (l *Limiter) Check(ctx context.Context, identifier string, maxRequests int, window time.Duration) Result {
	count, resetTime, err := l.store.Increment(ctx, identifier, window)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, allowing request",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return Result{Allowed: true, Remaining: maxRequests, ResetTime: time.Now().Add(window)}
	}

	remaining := maxRequests - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= maxRequests,
		Remaining: remaining,
		ResetTime: resetTime,
	}
}
