package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func limitedRouter(r rate.Limit, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.GET("/export", RateLimit(r, burst), func(c *gin.Context) { c.Status(http.StatusOK) })
	return e
}

func hit(e *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit(t *testing.T) {
	e := limitedRouter(rate.Limit(0.001), 2)

	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(e, "10.0.0.1"))

	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.2"), "buckets are per client")
}

func TestRateLimit_Disabled(t *testing.T) {
	e := limitedRouter(0, 0)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1"))
	}
}

func TestRateLimiter_SweepDropsIdleClients(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(rate.Limit(0.001), 1)
	l.limiters.WithClock(func() time.Time { return now })

	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.GET("/export", l.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, hit(e, "10.0.0.1"))
	assert.Equal(t, 2, l.Clients())
	assert.Equal(t, 0, l.Sweep())

	now = now.Add(limiterIdleTTL / 2)
	assert.Equal(t, http.StatusTooManyRequests, hit(e, "10.0.0.1"), "a rejected request keeps the bucket alive")

	now = now.Add(limiterIdleTTL/2 + time.Second)
	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Clients())

	now = now.Add(limiterIdleTTL)
	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1"), "a swept client starts with a full bucket")
}

func TestRateLimiter_ConcurrentClientSharesOneBucket(t *testing.T) {
	l := NewRateLimiter(rate.Limit(0.001), 3)
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.GET("/export", l.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	var (
		wg sync.WaitGroup
		ok atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if hit(e, "10.0.0.9") == http.StatusOK {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(3), ok.Load())
	assert.Equal(t, 1, l.Clients())
}
