package auth

import (
	"strings"
	"sync"
	"time"

	"github.com/mrlokans/tourism/internal/config"
)

// Realm separates customer and admin login attempts, so failing one
// login form never locks the other.
type Realm string

const (
	RealmUser  Realm = "user"
	RealmAdmin Realm = "admin"
)

const (
	defaultMaxLoginAttempts = 5
	defaultThrottleWindow   = 15 * time.Minute
	defaultLockout          = 30 * time.Minute
	throttleSweepInterval   = 5 * time.Minute
)

type throttleKey struct {
	realm Realm
	ip    string
	email string
}

type throttleEntry struct {
	failures    int
	since       time.Time
	lockedUntil time.Time
}

// LoginThrottle counts failed logins per realm, client IP and email, and
// locks that combination out once the limit is reached inside the window.
type LoginThrottle struct {
	mu      sync.Mutex
	entries map[throttleKey]*throttleEntry
	limit   int
	window  time.Duration
	lockout time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewLoginThrottle starts a throttle with the limits from cfg. Zero values
// fall back to 5 attempts in 15 minutes and a 30 minute lockout.
func NewLoginThrottle(cfg config.Auth) *LoginThrottle {
	t := &LoginThrottle{
		entries: make(map[throttleKey]*throttleEntry),
		limit:   cfg.MaxLoginAttempts,
		window:  cfg.RateLimitWindow,
		lockout: cfg.LockoutDuration,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	if t.limit <= 0 {
		t.limit = defaultMaxLoginAttempts
	}
	if t.window <= 0 {
		t.window = defaultThrottleWindow
	}
	if t.lockout <= 0 {
		t.lockout = defaultLockout
	}

	go t.sweepLoop(throttleSweepInterval)
	return t
}

// Stop ends the sweeper. Safe to call more than once.
func (t *LoginThrottle) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func newThrottleKey(realm Realm, ip, email string) throttleKey {
	return throttleKey{realm: realm, ip: ip, email: strings.ToLower(strings.TrimSpace(email))}
}

// Check returns how long the caller must wait before trying again, or
// zero when the attempt may proceed.
func (t *LoginThrottle) Check(realm Realm, ip, email string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[newThrottleKey(realm, ip, email)]
	if !ok {
		return 0
	}
	if now := t.now(); now.Before(entry.lockedUntil) {
		return entry.lockedUntil.Sub(now)
	}
	return 0
}

// Fail records a rejected login. It returns the lockout duration when this
// failure reached the limit, zero otherwise.
func (t *LoginThrottle) Fail(realm Realm, ip, email string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	k := newThrottleKey(realm, ip, email)
	entry, ok := t.entries[k]
	if !ok || t.stale(entry, now) {
		entry = &throttleEntry{since: now}
		t.entries[k] = entry
	}

	entry.failures++
	if entry.failures >= t.limit {
		entry.lockedUntil = now.Add(t.lockout)
		return t.lockout
	}
	return 0
}

// Reset forgets the failures after a successful login.
func (t *LoginThrottle) Reset(realm Realm, ip, email string) {
	t.mu.Lock()
	delete(t.entries, newThrottleKey(realm, ip, email))
	t.mu.Unlock()
}

// stale reports whether entry no longer counts: its window has passed,
// or its lockout has run out.
func (t *LoginThrottle) stale(entry *throttleEntry, now time.Time) bool {
	if !entry.lockedUntil.IsZero() {
		return !now.Before(entry.lockedUntil)
	}
	return now.Sub(entry.since) > t.window
}

func (t *LoginThrottle) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.sweep()
		case <-t.done:
			return
		}
	}
}

func (t *LoginThrottle) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for k, entry := range t.entries {
		if t.stale(entry, now) {
			delete(t.entries, k)
		}
	}
}
