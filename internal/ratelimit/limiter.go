// Package ratelimit provides a fixed-window limiter for outbound calls to
// quota-bound APIs. The window is aligned to the upstream quota's own reset
// cadence, so the worst-case 2x burst across a window boundary is acceptable.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a fixed-window quota for one operation class. A caller
// that would exceed the quota is blocked until the current window ends;
// blocking is deliberate backpressure, not an error path.
//
// The mutex is held for the duration of the wait, which serializes all
// callers of the same operation class behind the window reset.
type Limiter struct {
	limit  int
	window time.Duration

	mu          sync.Mutex
	windowStart time.Time
	count       int

	// overridable in tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a limiter admitting limit calls per window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Wait blocks until the call may proceed under the quota. It returns early
// only if ctx is cancelled while waiting for the window to reset.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.windowStart) >= l.window {
		l.count = 0
		l.windowStart = now
	}

	if l.count >= l.limit {
		remaining := l.window - now.Sub(l.windowStart)
		if remaining > 0 {
			if err := l.sleep(ctx, remaining); err != nil {
				return err
			}
		}
		l.count = 0
		l.windowStart = l.now()
	}

	l.count++
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
