package auth

import (
	"context"
	"sync"
	"time"
)

// Denylist records revoked token ids until the tokens would have expired.
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryDenylist is a process-local Denylist.
type MemoryDenylist struct {
	mu          sync.RWMutex
	entries     map[string]time.Time
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewMemoryDenylist starts a goroutine that drops expired entries every
// cleanupInterval. Call Stop to end it.
func NewMemoryDenylist(cleanupInterval time.Duration) *MemoryDenylist {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	d := &MemoryDenylist{
		entries:     make(map[string]time.Time),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go d.cleanupLoop(cleanupInterval)
	return d
}

func (d *MemoryDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	if !until.After(d.now()) {
		return nil
	}
	d.mu.Lock()
	d.entries[jti] = until
	d.mu.Unlock()
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.RLock()
	until, ok := d.entries[jti]
	d.mu.RUnlock()
	return ok && d.now().Before(until), nil
}

func (d *MemoryDenylist) Stop() {
	d.stopOnce.Do(func() { close(d.stopCleanup) })
}

func (d *MemoryDenylist) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.cleanup()
		case <-d.stopCleanup:
			return
		}
	}
}

func (d *MemoryDenylist) cleanup() {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for jti, until := range d.entries {
		if !now.Before(until) {
			delete(d.entries, jti)
		}
	}
}
