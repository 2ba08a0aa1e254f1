package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/proposalcraft/proposalcraft-backend/internal/cache"
)

// limiterIdleTTL bounds how long an idle client keeps its bucket.
const limiterIdleTTL = 10 * time.Minute

// RateLimiter throttles requests per client IP with a token bucket of a
// fixed rate and burst. A non-positive rate disables limiting.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters *cache.TTLCache[string, *rate.Limiter]
}

func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    r,
		burst:    burst,
		limiters: cache.NewTTLCache[string, *rate.Limiter](),
	}
}

// RateLimit is a shorthand for NewRateLimiter(r, burst).Handler().
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	return NewRateLimiter(r, burst).Handler()
}

func (l *RateLimiter) Handler() gin.HandlerFunc {
	if l.limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		lim := l.limiters.GetOrCreate(c.ClientIP(), limiterIdleTTL, func() *rate.Limiter {
			return rate.NewLimiter(l.limit, l.burst)
		})
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please retry shortly"})
			return
		}
		c.Next()
	}
}

// Sweep drops buckets of clients idle for longer than limiterIdleTTL.
func (l *RateLimiter) Sweep() int {
	return l.limiters.Purge()
}

// Clients returns the number of tracked client buckets.
func (l *RateLimiter) Clients() int {
	return l.limiters.Len()
}
