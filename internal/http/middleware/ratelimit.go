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

// idleBucketTTL is how long an unused bucket survives before a sweep drops it.
const idleBucketTTL = 10 * time.Minute

// keyFunc maps a request to its bucket identity.
type keyFunc func(*gin.Context) string

// KeyByPrincipalOrIP keys buckets by the AdminAuth principal when present and
// by client IP otherwise. The "principal:" and "ip:" prefixes keep the two
// namespaces apart.
func KeyByPrincipalOrIP() keyFunc {
	return func(c *gin.Context) string {
		if p := Principal(c); p != "" {
			return "principal:" + p
		}
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a process-local token-bucket limiter with one bucket per
// key. Idle buckets are swept at most once per TTL, during lookups.
//
// Rejections are counted in http_rate_limited_total under the limiter's
// scope. It is safe for concurrent use.
type RateLimiter struct {
	scope string
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu        sync.Mutex
	buckets   map[string]*bucket
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter builds a limiter allowing rps requests per second with the
// given burst (coerced to at least 1) per key. scope labels its metrics,
// e.g. "public" or "admin".
func NewRateLimiter(scope string, rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		scope:     scope,
		rps:       rate.Limit(rps),
		burst:     burst,
		keyFn:     keyFn,
		buckets:   make(map[string]*bucket),
		ttl:       idleBucketTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// limiterFor returns the bucket for key, creating it on first use. The sweep
// runs before the lookup so a stale bucket for key is replaced, not revived.
func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.ttl {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.ttl {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	return lim
}

// Handler enforces the limit. A rejected request gets 429 with a Retry-After
// (whole seconds until a token is available, at least 1) and the API error
// envelope:
//
//	{"request_id": "<id>", "code": "rate_limited", "message": "rate limit exceeded"}
//
// Install it after AdminAuth on admin routes so the principal keys the bucket.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := rl.limiterFor(rl.keyFn(c))

		now := rl.now()
		res := lim.ReserveN(now, 1)
		if res.OK() {
			delay := res.DelayFrom(now)
			if delay == 0 {
				c.Next()
				return
			}
			res.CancelAt(now)
			rl.reject(c, delay)
			return
		}
		rl.reject(c, time.Second)
	}
}

func (rl *RateLimiter) reject(c *gin.Context, wait time.Duration) {
	httpRateLimited.WithLabelValues(rl.scope).Inc()

	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	c.Header("Retry-After", strconv.Itoa(secs))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       "rate_limited",
		"message":    "rate limit exceeded",
	})
}
