package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	codeRateLimited = "too_many_requests"

	bucketIdleTTL   = 10 * time.Minute
	sweepEveryCalls = 5000
)

// KeyFunc names the bucket a request draws from.
type KeyFunc func(*gin.Context) string

// KeyByUserOrIP keys on the identity set by Identity, else on the client IP.
// The prefixes keep the two namespaces apart.
func KeyByUserOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(UserIDKey); uid != "" {
			return "user:" + uid
		}
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is an in-process token-bucket limiter with one bucket per key.
// Idle buckets are swept every few thousand lookups. It is safe for
// concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	key   KeyFunc
	skip  map[string]struct{}

	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	calls   int
}

// NewRateLimiter refills rps tokens per second up to burst (at least 1).
// Requests to the routes in skipRoutes are never limited.
func NewRateLimiter(rps float64, burst int, key KeyFunc, skipRoutes ...string) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if key == nil {
		key = KeyByUserOrIP()
	}
	skip := make(map[string]struct{}, len(skipRoutes))
	for _, p := range skipRoutes {
		skip[p] = struct{}{}
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		key:     key,
		skip:    skip,
		buckets: make(map[string]*bucket),
		ttl:     bucketIdleTTL,
	}
}

func (rl *RateLimiter) limiter(k string) *rate.Limiter {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Sweep before the lookup so a stale bucket for k is replaced, not revived.
	rl.calls++
	if rl.calls >= sweepEveryCalls {
		for name, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.ttl {
				delete(rl.buckets, name)
			}
		}
		rl.calls = 0
	}

	if b, ok := rl.buckets[k]; ok {
		b.lastSeen = now
		return b.lim
	}
	b := &bucket{lim: rate.NewLimiter(rl.rps, rl.burst), lastSeen: now}
	rl.buckets[k] = b
	return b.lim
}

// Handler answers 429 with a Retry-After hint once a bucket is empty.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := rl.skip[routeOf(c)]; ok {
			c.Next()
			return
		}

		r := rl.limiter(rl.key(c)).Reserve()
		if r.OK() && r.Delay() == 0 {
			c.Next()
			return
		}
		retry := time.Second
		if r.OK() {
			retry = r.Delay()
			r.Cancel()
		}

		secs := int(math.Ceil(retry.Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Header("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(HeaderRequestID),
			"code":       codeRateLimited,
			"message":    "rate limit exceeded",
		})
	}
}
