package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_Allow(t *testing.T) {
	tb := NewTokenBucket(3, 0)

	// Burst up to capacity, then deny.
	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "request %d within capacity", i)
	}
	assert.False(t, tb.Allow())
}

func TestTokenBucket_Refill(t *testing.T) {
	tb := NewTokenBucket(1, 100)

	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	// At 100 tokens/s a short wait restores the bucket.
	time.Sleep(20 * time.Millisecond)
	assert.True(t, tb.Allow())
}

func TestTokenBucket_RefillCapsAtCapacity(t *testing.T) {
	tb := NewTokenBucket(2, 1000)

	time.Sleep(10 * time.Millisecond)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestTokenBucket_Reset(t *testing.T) {
	tb := NewTokenBucket(1, 0)

	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	tb.Reset()
	assert.True(t, tb.Allow())
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, 0, 0)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, 0, 0)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	rl.Reset("10.0.0.1")
	assert.True(t, rl.Allow("10.0.0.1"))

	// Resetting an unknown key is a no-op.
	rl.Reset("10.0.0.9")
}
