package ratelimit

import (
	"math"
	"sync"
	"time"
)

// TokenBucket is an in-process per-key limiter. Each key refills at
// rate tokens per second up to burst. Single-process deployments only;
// state is lost on restart.
type TokenBucket struct {
	mu      sync.Mutex
	rate    float64
	burst   float64
	buckets map[string]*bucket

	now func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

func NewTokenBucket(rate float64, burst int) *TokenBucket {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucket{
		rate:    rate,
		burst:   float64(burst),
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (t *TokenBucket) Allow(key string) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{tokens: t.burst, last: now}
		t.buckets[key] = b
	} else {
		elapsed := now.Sub(b.last).Seconds()
		if elapsed > 0 {
			b.tokens = math.Min(t.burst, b.tokens+elapsed*t.rate)
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return Result{Allowed: true, Remaining: int(b.tokens)}
	}

	needed := 1 - b.tokens
	return Result{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: time.Duration(needed / t.rate * float64(time.Second)),
	}
}

// Prune drops buckets idle longer than maxIdle. Callers decide cadence.
func (t *TokenBucket) Prune(maxIdle time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-maxIdle)
	for key, b := range t.buckets {
		if b.last.Before(cutoff) {
			delete(t.buckets, key)
		}
	}
}
