package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesBurst(t *testing.T) {
	tb := NewTokenBucket(1, 3)

	for i := 0; i < 3; i++ {
		res := tb.Allow("203.0.113.9")
		assert.True(t, res.Allowed, "call %d", i)
	}

	res := tb.Allow("203.0.113.9")
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
}

func TestKeysAreIndependent(t *testing.T) {
	tb := NewTokenBucket(1, 1)

	assert.True(t, tb.Allow("a").Allowed)
	assert.False(t, tb.Allow("a").Allowed)
	assert.True(t, tb.Allow("b").Allowed)
}

func TestRefillRestoresTokens(t *testing.T) {
	tb := NewTokenBucket(2, 2)
	current := time.Now()
	tb.now = func() time.Time { return current }

	assert.True(t, tb.Allow("k").Allowed)
	assert.True(t, tb.Allow("k").Allowed)
	assert.False(t, tb.Allow("k").Allowed)

	current = current.Add(time.Second)
	assert.True(t, tb.Allow("k").Allowed)
	assert.True(t, tb.Allow("k").Allowed)
	assert.False(t, tb.Allow("k").Allowed)
}

func TestPruneDropsIdleBuckets(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	current := time.Now()
	tb.now = func() time.Time { return current }

	tb.Allow("stale")
	current = current.Add(time.Hour)
	tb.Allow("fresh")

	tb.Prune(30 * time.Minute)

	tb.mu.Lock()
	defer tb.mu.Unlock()
	assert.NotContains(t, tb.buckets, "stale")
	assert.Contains(t, tb.buckets, "fresh")
}
