package auth

import (
	"sync"
	"time"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
)

// Login limiter defaults, used when the configuration leaves a value at zero.
const (
	defaultLoginAttempts   = 5
	defaultLoginWindow     = 15 * time.Minute
	defaultLoginLockout    = 30 * time.Minute
	defaultLimiterSweepGap = 5 * time.Minute
)

// RateLimiter throttles login attempts per client IP and email. It sits in
// front of the per-account lockout so that guessing against one address from
// one client stops before the account itself is locked.
type RateLimiter struct {
	mu      sync.Mutex
	records map[string]attemptRecord
	cfg     RateLimitConfig
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// RateLimitConfig contains configuration for the rate limiter.
type RateLimitConfig struct {
	MaxAttempts     int           // failures inside WindowDuration before a lockout
	WindowDuration  time.Duration // how long failures are remembered
	LockoutDuration time.Duration // how long a key is refused once locked
	CleanupInterval time.Duration // how often stale keys are dropped
}

// RateLimitConfigFrom reads the login limits from the auth configuration.
func RateLimitConfigFrom(cfg config.Auth) RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	}
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultLoginAttempts
	}
	if c.WindowDuration <= 0 {
		c.WindowDuration = defaultLoginWindow
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = defaultLoginLockout
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = defaultLimiterSweepGap
	}
	return c
}

// attemptRecord counts failures for one IP+email key. A zero record means
// the key is clean.
type attemptRecord struct {
	count       int
	windowStart time.Time
	lockedUntil time.Time
}

// at returns the record as it stands at now. An elapsed window or a
// finished lockout starts the key over.
func (r attemptRecord) at(now time.Time, window time.Duration) attemptRecord {
	if !r.lockedUntil.IsZero() {
		if now.Before(r.lockedUntil) {
			return r
		}
		return attemptRecord{}
	}
	if now.Sub(r.windowStart) > window {
		return attemptRecord{}
	}
	return r
}

func (r attemptRecord) locked(now time.Time) bool {
	return !r.lockedUntil.IsZero() && now.Before(r.lockedUntil)
}

// NewRateLimiter starts a limiter with a background sweep of stale keys.
// Call Stop to end the sweep.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		records: make(map[string]attemptRecord),
		cfg:     cfg.withDefaults(),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Stop ends the background sweep. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func limiterKey(ip, email string) string {
	return ip + "|" + email
}

// Allow reports whether a login attempt may go ahead and, when it may not,
// how long until the lockout ends.
func (rl *RateLimiter) Allow(ip, email string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record := rl.records[limiterKey(ip, email)].at(now, rl.cfg.WindowDuration)
	if record.locked(now) {
		return false, record.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed attempt. It reports whether the key is now
// locked and for how long.
func (rl *RateLimiter) RecordFailure(ip, email string) (bool, time.Duration) {
	key := limiterKey(ip, email)
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record := rl.records[key].at(now, rl.cfg.WindowDuration)
	if record.locked(now) {
		return true, record.lockedUntil.Sub(now)
	}
	if record.count == 0 {
		record.windowStart = now
	}
	record.count++
	if record.count >= rl.cfg.MaxAttempts {
		record.lockedUntil = now.Add(rl.cfg.LockoutDuration)
	}
	rl.records[key] = record

	if record.locked(now) {
		return true, rl.cfg.LockoutDuration
	}
	return false, 0
}

// RecordSuccess forgets the key after a successful login.
func (rl *RateLimiter) RecordSuccess(ip, email string) {
	rl.mu.Lock()
	delete(rl.records, limiterKey(ip, email))
	rl.mu.Unlock()
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep drops keys whose window and lockout have both run out.
func (rl *RateLimiter) sweep() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, record := range rl.records {
		if record.at(now, rl.cfg.WindowDuration) == (attemptRecord{}) {
			delete(rl.records, key)
		}
	}
}
