package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsInitialAttempts(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour, // Long interval to prevent cleanup during test
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("192.168.1.1", "a@b.com")
		assert.True(t, allowed, "attempt %d should be allowed", i+1)
		rl.RecordFailure("192.168.1.1", "a@b.com")
	}

	allowed, retryAfter := rl.Allow("192.168.1.1", "a@b.com")
	assert.False(t, allowed, "4th attempt should be blocked")
	assert.NotZero(t, retryAfter)
}

func TestRateLimiter_SuccessResetsCounter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1", "a@b.com")
	rl.RecordFailure("192.168.1.1", "a@b.com")
	rl.RecordSuccess("192.168.1.1", "a@b.com")

	allowed, _ := rl.Allow("192.168.1.1", "a@b.com")
	assert.True(t, allowed)
}

func TestRateLimiter_IndependentKeys(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     2,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1", "a@b.com")
	locked, _ := rl.RecordFailure("192.168.1.1", "a@b.com")
	assert.True(t, locked)

	allowed, _ := rl.Allow("192.168.1.1", "a@b.com")
	assert.False(t, allowed)

	allowed, _ = rl.Allow("192.168.1.1", "c@d.com")
	assert.True(t, allowed, "other email from the same client")

	allowed, _ = rl.Allow("10.0.0.1", "a@b.com")
	assert.True(t, allowed, "same email from another client")
}

func TestRateLimiter_LockoutExpires(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     1,
		WindowDuration:  time.Minute,
		LockoutDuration: 5 * time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()
	rl.now = clock.Now

	rl.RecordFailure("192.168.1.1", "a@b.com")
	allowed, _ := rl.Allow("192.168.1.1", "a@b.com")
	assert.False(t, allowed)

	clock.Advance(7 * time.Minute)
	allowed, _ = rl.Allow("192.168.1.1", "a@b.com")
	assert.True(t, allowed)

	rl.sweep()
	rl.mu.Lock()
	assert.Empty(t, rl.records)
	rl.mu.Unlock()
}

func TestRateLimiter_LockoutShorterThanWindow(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     2,
		WindowDuration:  time.Hour,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()
	rl.now = clock.Now

	rl.RecordFailure("192.168.1.1", "a@b.com")
	locked, wait := rl.RecordFailure("192.168.1.1", "a@b.com")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, wait)

	clock.Advance(30 * time.Second)
	allowed, retryAfter := rl.Allow("192.168.1.1", "a@b.com")
	assert.False(t, allowed)
	assert.Equal(t, 30*time.Second, retryAfter)

	// The window is still open, but the lockout is over and counting restarts.
	clock.Advance(time.Minute)
	allowed, _ = rl.Allow("192.168.1.1", "a@b.com")
	assert.True(t, allowed)

	locked, _ = rl.RecordFailure("192.168.1.1", "a@b.com")
	assert.False(t, locked, "one failure after the lockout must not lock again")
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	headers := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
	}
	for header, expected := range headers {
		assert.Equal(t, expected, rr.Header().Get(header), header)
	}
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
}

func TestHSTSHeader(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware(31536000))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"), "HSTS should not be set for HTTP requests")

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
}
