package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	limiter := NewRateLimiter(3)

	assert.True(t, limiter.Allow("203.0.113.7"))
	assert.True(t, limiter.Allow("203.0.113.7"))
	assert.True(t, limiter.Allow("203.0.113.7"))
	assert.False(t, limiter.Allow("203.0.113.7"))
}

func TestRateLimiterIsPerCaller(t *testing.T) {
	limiter := NewRateLimiter(1)

	assert.True(t, limiter.Allow("203.0.113.7"))
	assert.False(t, limiter.Allow("203.0.113.7"))
	assert.True(t, limiter.Allow("203.0.113.8"))
}

func TestRateLimiterWindowSlides(t *testing.T) {
	limiter := NewRateLimiter(2)

	assert.True(t, limiter.Allow("203.0.113.7"))
	assert.True(t, limiter.Allow("203.0.113.7"))
	assert.False(t, limiter.Allow("203.0.113.7"))

	// Age the recorded requests past the window.
	limiter.mu.Lock()
	window := limiter.windows["203.0.113.7"]
	for i := range window {
		window[i] = window[i].Add(-2 * time.Minute)
	}
	limiter.windows["203.0.113.7"] = window
	limiter.mu.Unlock()

	assert.True(t, limiter.Allow("203.0.113.7"))
}
