package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/paydar/paydar/internal/model"
)

// ModelRateLimiter enforces a minimum delay between requests to the same
// backend model.
type ModelRateLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: model identifier
	minDelay time.Duration        // delay between requests to the same model
}

// NewModelRateLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same backend model.
func NewModelRateLimiter(minDelay time.Duration) *ModelRateLimiter {
	return &ModelRateLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to the given
// model. Returns an error if the context is cancelled while waiting.
func (r *ModelRateLimiter) Wait(ctx context.Context, modelID string) error {
	r.mu.Lock()
	last, ok := r.lastCall[modelID]
	now := time.Now()

	if !ok {
		// First request for this model, no wait needed.
		r.lastCall[modelID] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= r.minDelay {
		// Enough time has passed, proceed immediately.
		r.lastCall[modelID] = now
		r.mu.Unlock()
		return nil
	}

	// Need to wait for the remainder.
	remaining := r.minDelay - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", modelID, ctx.Err())
	case <-time.After(remaining):
	}

	// Record the actual time after waiting.
	r.mu.Lock()
	r.lastCall[modelID] = time.Now()
	r.mu.Unlock()

	return nil
}

// PacedCompleter is a decorator that enforces model-level rate limiting before
// delegating to the wrapped Completer.
type PacedCompleter struct {
	inner   model.Completer
	limiter *ModelRateLimiter
}

var _ model.Completer = (*PacedCompleter)(nil)

// NewPacedCompleter wraps a Completer with model-level rate limiting. All
// completers targeting the same backend should share the same limiter instance.
func NewPacedCompleter(inner model.Completer, limiter *ModelRateLimiter) *PacedCompleter {
	return &PacedCompleter{
		inner:   inner,
		limiter: limiter,
	}
}

// Complete waits for the rate limiter to allow a request, then delegates to
// the wrapped completer.
func (c *PacedCompleter) Complete(ctx context.Context, modelID, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx, modelID); err != nil {
		return "", err
	}
	return c.inner.Complete(ctx, modelID, prompt)
}
