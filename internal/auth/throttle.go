package auth

import (
	"sync"
	"time"
)

// LoginCooldown is the minimum interval between login attempts per identity.
const LoginCooldown = 5 * time.Second

// LoginThrottle is a per-identity cooldown gate for the login path. It is a
// best-effort, single-process limiter. Entries older than the cooldown are
// swept opportunistically so the ledger stays bounded.
type LoginThrottle struct {
	mu        sync.Mutex
	cooldown  time.Duration
	attempts  map[string]time.Time
	lastSweep time.Time
}

// NewLoginThrottle creates a throttle with the given cooldown window.
func NewLoginThrottle(cooldown time.Duration) *LoginThrottle {
	return &LoginThrottle{
		cooldown: cooldown,
		attempts: make(map[string]time.Time),
	}
}

// CheckAndRecord reports whether an attempt for identity is allowed at now.
// A denied attempt does not refresh the recorded timestamp, so a caller
// retrying inside the window is not punished indefinitely.
func (t *LoginThrottle) CheckAndRecord(identity string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.attempts[identity]; ok && now.Sub(last) < t.cooldown {
		return false
	}
	t.attempts[identity] = now
	t.sweepLocked(now)
	return true
}

// sweepLocked drops entries outside the cooldown window, at most once per
// window. Caller must hold mu.
func (t *LoginThrottle) sweepLocked(now time.Time) {
	if now.Sub(t.lastSweep) < t.cooldown {
		return
	}
	for identity, last := range t.attempts {
		if now.Sub(last) >= t.cooldown {
			delete(t.attempts, identity)
		}
	}
	t.lastSweep = now
}
