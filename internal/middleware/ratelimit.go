package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/response"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// RateLimiter keeps one token bucket per key in memory. Each bucket refills
// limit tokens per window and bursts up to limit. A bucket idle for a whole
// window is full again, so it is dropped on the next sweep.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	window   time.Duration
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{buckets: make(map[string]*bucket), now: time.Now}
}

func (r *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= window {
		r.sweep(now)
		r.lastSweep = now
	}
	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		r.buckets[key] = b
	}
	b.lastSeen = now
	b.window = window
	return b.limiter.AllowN(now, 1)
}

func (r *RateLimiter) sweep(now time.Time) {
	for key, b := range r.buckets {
		if now.Sub(b.lastSeen) >= b.window {
			delete(r.buckets, key)
		}
	}
}

// Len is the number of live buckets.
func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}

// RateLimit rejects with 429 once keyFn's key has used up its budget. An empty
// key or nil limiter lets the request through.
func RateLimit(limiter Limiter, keyFn func(*gin.Context) string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" || limiter == nil {
			c.Next()
			return
		}
		if !limiter.Allow(key, limit, window) {
			response.Error(c, apperr.New(apperr.CodeRateLimited, "Too many requests, please try again shortly", nil))
			return
		}
		c.Next()
	}
}

// SessionKey keys limits by user, falling back to the client IP.
func SessionKey(prefix string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		if sess := SessionFrom(c); sess.Authenticated() {
			return prefix + ":user:" + sess.UserID
		}
		return prefix + ":ip:" + c.ClientIP()
	}
}
