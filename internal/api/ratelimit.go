package api

import (
	"sync"
	"time"

	apperrors "postcraft_go_backend/internal/errors"

	"github.com/gin-gonic/gin"
)

// RateLimiter caps total requests per caller per minute, independent of the
// quota logic. Sliding window, process-local.
type RateLimiter struct {
	limit int

	mu      sync.Mutex
	windows map[string][]time.Time
}

func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		limit:   requestsPerMinute,
		windows: make(map[string][]time.Time),
	}
}

// Allow records the request and reports whether the caller is within limit.
func (l *RateLimiter) Allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-time.Minute)

	l.mu.Lock()
	defer l.mu.Unlock()

	window := l.windows[key]
	i := 0
	for i < len(window) && window[i].Before(cutoff) {
		i++
	}
	window = window[i:]

	if len(window) >= l.limit {
		l.windows[key] = window
		return false
	}

	l.windows[key] = append(window, now)
	return true
}

// RateLimitMiddleware rejects callers over the per-minute cap with 429
// TooManyRequests before any quota or upstream work happens.
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			apperrors.HandleError(c, apperrors.NewTooManyRequestsError())
			c.Abort()
			return
		}
		c.Next()
	}
}
