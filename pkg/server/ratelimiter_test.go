package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(limit int, now *time.Time) *RateLimiter {
	rl := NewRateLimiter(limit)
	rl.now = func() time.Time { return *now }
	return rl
}

func TestRateLimiterAllow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := newTestLimiter(3, &now)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// Independent clients
	assert.True(t, rl.Allow("10.0.0.2"))

	// Window slides
	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterRetryAfter(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := newTestLimiter(2, &now)
	defer rl.Stop()

	assert.Equal(t, 0, rl.RetryAfter("10.0.0.1"))

	rl.Allow("10.0.0.1")
	now = now.Add(15 * time.Second)
	rl.Allow("10.0.0.1")
	assert.False(t, rl.Allow("10.0.0.1"))

	assert.Equal(t, 45, rl.RetryAfter("10.0.0.1"))

	now = now.Add(500 * time.Millisecond)
	assert.Equal(t, 45, rl.RetryAfter("10.0.0.1"), "rounds up to whole seconds")
}

func TestRateLimiterPrune(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := newTestLimiter(5, &now)
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	now = now.Add(30 * time.Second)
	rl.Allow("10.0.0.2")
	now = now.Add(45 * time.Second)

	rl.prune()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "10.0.0.1")
	assert.Contains(t, rl.clients, "10.0.0.2")
}

func TestRateLimiterStopTwice(t *testing.T) {
	rl := NewRateLimiter(1)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
