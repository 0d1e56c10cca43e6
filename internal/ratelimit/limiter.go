// Package ratelimit throttles outgoing requests to external APIs.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with a name for logging/debugging.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter allowing perSecond requests per second. The burst is
// perSecond rounded up, never less than one. A non-positive rate disables
// limiting.
func New(name string, perSecond float64) *Limiter {
	if perSecond <= 0 {
		return Unlimited(name)
	}
	burst := int(math.Ceil(perSecond))
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		name:    name,
	}
}

// Unlimited creates a limiter that never blocks.
func Unlimited(name string) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Inf, 1),
		name:    name,
	}
}

// Wait blocks until a request may proceed. The returned error wraps the
// context error when ctx ends first. A nil Limiter never blocks.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}
	if l.limiter.Tokens() < 1 {
		slog.Debug("Waiting for rate limit", "limiter", l.Name())
	}
	if err := l.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("rate limit wait for %s: %w", l.name, ctxErr)
		}
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Name returns the name of this rate limiter.
func (l *Limiter) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}
