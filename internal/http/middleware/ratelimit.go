// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements a lightweight, in-memory rate limiter for the /api
// prefix: each client IP gets a token bucket sized to the full window quota
// (e.g. 100 requests per 15 minutes) that refills continuously at
// quota/window. Idle buckets are garbage-collected opportunistically so
// memory stays bounded.
//
// The limiter is process-local. For horizontally scaled deployments a
// distributed limiter (Redis-backed) would be needed to enforce a global
// quota; a single small instance serves this site.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMessage is the fixed body returned on excess, matching what the
// frontend displays.
const RateLimitMessage = "Too many requests from this IP, please try again later."

// keyFunc selects the identity used to key a rate-limit bucket.
type keyFunc func(*gin.Context) string

// KeyByClientIP keys buckets by the client IP (honoring proxy headers via
// Gin's ClientIP).
func KeyByClientIP() keyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// visitor holds one client's bucket and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-client request quota over a sliding window,
// approximated by a token bucket with burst = quota and refill rate =
// quota/window. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu       sync.Mutex
	visitors map[string]*visitor
	ttl      time.Duration
	lookups  uint64
}

// NewRateLimiter constructs a limiter allowing quota requests per window for
// each key. quota values < 1 are coerced to 1; window values <= 0 default to
// a minute.
func NewRateLimiter(quota int, window time.Duration, keyFn keyFunc) *RateLimiter {
	if quota < 1 {
		quota = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		rps:      rate.Limit(float64(quota) / window.Seconds()),
		burst:    quota,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		// Evict buckets idle for a full window; by then they are full again.
		ttl: window,
	}
}

// getVisitor returns the bucket for key, creating it on demand. Every ~5000
// lookups it sweeps idle entries first, so an expired bucket can be evicted
// even when it is the one being fetched.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	rl.lookups++
	if rl.lookups >= 5000 {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		lim := v.limiter
		rl.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	rl.mu.Unlock()
	return lim
}

// Handler returns a Gin middleware enforcing the quota. Requests over the
// limit receive:
//
//	HTTP/1.1 429 Too Many Requests
//	{ "success": false, "message": "Too many requests from this IP, ..." }
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := rl.getVisitor(rl.keyFn(c))
		if lim.Allow() {
			c.Next()
			return
		}

		c.Header("Retry-After", "60")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"message": RateLimitMessage,
		})
	}
}
