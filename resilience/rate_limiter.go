package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/rxkit/errors"
)

// RateLimiterConfig configures a RateLimiter.
type RateLimiterConfig struct {
	// Name identifies the limiter in errors and the OnLimit callback.
	Name string
	// Rate is the number of tokens added per second.
	Rate float64
	// Burst is the bucket size; 0 means ceil(Rate), at least 1.
	Burst int
	// OnLimit is called, outside the lock, whenever Allow refuses.
	OnLimit func(name string)
}

// RateLimiter is a token bucket. It is safe for concurrent use.
type RateLimiter struct {
	cfg RateLimiterConfig
	now func() time.Time

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a full bucket. A non-positive Rate yields a
// limiter that never refuses.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = max(1, int(cfg.Rate+0.999))
	}
	rl := &RateLimiter{cfg: cfg, now: time.Now, tokens: float64(cfg.Burst)}
	rl.lastRefill = rl.now()
	return rl
}

// Allow takes one token if available.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN takes n tokens if all are available.
func (rl *RateLimiter) AllowN(n int) bool {
	if rl.cfg.Rate <= 0 {
		return true
	}
	rl.mu.Lock()
	rl.refill()
	ok := rl.tokens >= float64(n)
	if ok {
		rl.tokens -= float64(n)
	}
	rl.mu.Unlock()

	if !ok && rl.cfg.OnLimit != nil {
		rl.cfg.OnLimit(rl.cfg.Name)
	}
	return ok
}

// Check is Allow returning a retryable LIMIT_EXCEEDED error on refusal.
func (rl *RateLimiter) Check() error {
	if rl.Allow() {
		return nil
	}
	return errors.RateLimited(rl.cfg.Name, rl.cfg.Rate)
}

// Wait blocks until a token is available or ctx ends.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if rl.cfg.Rate <= 0 {
			return nil
		}
		rl.mu.Lock()
		rl.refill()
		if rl.tokens >= 1 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - rl.tokens) / rl.cfg.Rate * float64(time.Second))
		rl.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.FromContext("ratelimit.wait", ctx.Err())
		case <-timer.C:
		}
	}
}

// Tokens returns the tokens currently available.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

func (rl *RateLimiter) refill() {
	now := rl.now()
	rl.tokens = min(float64(rl.cfg.Burst), rl.tokens+now.Sub(rl.lastRefill).Seconds()*rl.cfg.Rate)
	rl.lastRefill = now
}
