package middleware

import (
	"net/http"
	"time"

	"task-tracker-api/internal/cache"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than the idle window are dropped.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	idle    time.Duration
	buckets *cache.TTLCache[string, *rate.Limiter]
	stop    func()
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst per client.
func NewRateLimiter(rps float64, burst int, idle time.Duration) *RateLimiter {
	buckets := cache.New[string, *rate.Limiter]()
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idle:    idle,
		buckets: buckets,
		stop:    buckets.StartJanitor(idle),
	}
}

// Allow reports whether a request from key may proceed now.
func (l *RateLimiter) Allow(key string) bool {
	limiter := l.buckets.GetOrCreate(key, l.idle, func() *rate.Limiter {
		return rate.NewLimiter(l.limit, l.burst)
	})
	return limiter.Allow()
}

// Stop ends the background cleanup.
func (l *RateLimiter) Stop() {
	l.stop()
}

// Handler rejects requests over the limit with 429.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
