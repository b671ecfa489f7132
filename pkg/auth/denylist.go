package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryDenylist keeps revoked ids in process; used when redis is not
// configured and in tests.
type MemoryDenylist struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{until: map[string]time.Time{}, now: time.Now}
}

func (d *MemoryDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.until[jti] = until
	// prune expired ids while holding the lock
	now := d.now()
	for id, exp := range d.until {
		if now.After(exp) {
			delete(d.until, id)
		}
	}
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.until[jti]
	return ok && !d.now().After(exp), nil
}
