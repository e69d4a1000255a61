package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window request counter per client key.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, w time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  w,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Allow counts one request for key and reports whether it is within the limit.
// A non-positive limit disables limiting.
func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.window {
		if len(rl.windows) > 10000 {
			rl.evict(now)
		}
		rl.windows[key] = &window{start: now, count: 1}
		return true
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

func (rl *RateLimiter) evict(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.start) >= rl.window {
			delete(rl.windows, k)
		}
	}
}

func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"kind":        "rate_limited",
				"retry_after": limiter.window.Seconds(),
			})
			return
		}
		c.Next()
	}
}

// EndpointRateLimiter applies a separate limiter per route pattern.
type EndpointRateLimiter struct {
	limiters map[string]*RateLimiter
	mu       sync.RWMutex
}

func NewEndpointRateLimiter() *EndpointRateLimiter {
	return &EndpointRateLimiter{
		limiters: make(map[string]*RateLimiter),
	}
}

func (erl *EndpointRateLimiter) AddEndpoint(path string, limit int, window time.Duration) {
	erl.mu.Lock()
	defer erl.mu.Unlock()
	erl.limiters[path] = NewRateLimiter(limit, window)
}

func (erl *EndpointRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		erl.mu.RLock()
		limiter, exists := erl.limiters[c.FullPath()]
		erl.mu.RUnlock()

		if exists && !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded for this endpoint",
				"kind":        "rate_limited",
				"retry_after": limiter.window.Seconds(),
			})
			return
		}

		c.Next()
	}
}
