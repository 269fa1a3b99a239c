package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeClock lets tests move the limiter's notion of time.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(scope string, rps float64, burst int) (*RateLimiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(scope, rps, burst, KeyByPrincipalOrIP())
	rl.now = clk.now
	rl.lastSweep = clk.t
	return rl, clk
}

func TestKeyByPrincipalOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	if key := KeyByPrincipalOrIP()(c); key != "ip:203.0.113.9" {
		t.Fatalf("expected ip key, got %q", key)
	}
	c.Set(ctxKeyPrincipal, PrincipalAdmin)
	if key := KeyByPrincipalOrIP()(c); key != "principal:admin" {
		t.Fatalf("expected principal key, got %q", key)
	}
}

func TestNewRateLimiter_BurstCoercionAndReuse(t *testing.T) {
	rl := NewRateLimiter("public", 2, 0, KeyByPrincipalOrIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d, want 1", rl.burst)
	}
	lim := rl.limiterFor("k1")
	if rl.limiterFor("k1") != lim {
		t.Fatalf("expected the same bucket for the same key")
	}
	if rl.limiterFor("k2") == lim {
		t.Fatalf("expected separate buckets per key")
	}
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	rl, clk := newTestLimiter("public", 1, 1)

	stale := rl.limiterFor("old")
	clk.advance(idleBucketTTL / 2)
	_ = rl.limiterFor("recent")

	// First sweep happens once a full TTL has passed since construction.
	clk.advance(idleBucketTTL / 2)
	_ = rl.limiterFor("trigger")

	rl.mu.Lock()
	_, hasOld := rl.buckets["old"]
	_, hasRecent := rl.buckets["recent"]
	rl.mu.Unlock()
	if hasOld || !hasRecent {
		t.Fatalf("sweep kept old=%v recent=%v", hasOld, hasRecent)
	}
	if rl.limiterFor("old") == stale {
		t.Fatalf("a swept key must get a fresh bucket")
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, clk := newTestLimiter("test-handler", 1, 1)
	before := testutil.ToFloat64(httpRateLimited.WithLabelValues("test-handler"))

	r := gin.New()
	r.Use(RequestID())
	r.Use(rl.Handler())
	r.GET("/api/v1/status", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	get := func(rid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
		req.Header.Set(requestIDHeader, rid)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := get("r1"); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}

	w := get("r2")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("Retry-After = %q", got)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["code"] != "rate_limited" || body["request_id"] != "r2" {
		t.Fatalf("unexpected body: %v", body)
	}
	if got := testutil.ToFloat64(httpRateLimited.WithLabelValues("test-handler")); got != before+1 {
		t.Fatalf("http_rate_limited_total = %v, want %v", got, before+1)
	}

	// A rejected request must not consume the next token.
	clk.advance(time.Second)
	if w := get("r3"); w.Code != http.StatusOK {
		t.Fatalf("after refill: %d", w.Code)
	}
}

func TestRateLimiter_RetryAfterRoundsUp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter("test-slow", 0.25, 1)

	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "4" {
		t.Fatalf("got %d Retry-After=%q", w.Code, w.Header().Get("Retry-After"))
	}
}

func TestRateLimiter_PrincipalHasOwnBucket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter("test-principal", 1, 1)

	anon := gin.New()
	anon.Use(rl.Handler())
	anon.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	admin := gin.New()
	admin.Use(func(c *gin.Context) { c.Set(ctxKeyPrincipal, PrincipalAdmin); c.Next() })
	admin.Use(rl.Handler())
	admin.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	anon.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	w := httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("admin bucket must be independent, got %d", w.Code)
	}
}
