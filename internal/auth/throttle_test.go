package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/tourism/internal/config"
)

// fakeClock drives a throttle without sleeping.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestThrottle(t *testing.T, cfg config.Auth) (*LoginThrottle, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)}
	th := NewLoginThrottle(cfg)
	th.now = clock.now
	t.Cleanup(th.Stop)
	return th, clock
}

func TestLoginThrottle_LocksAtLimit(t *testing.T) {
	th, clock := newTestThrottle(t, config.Auth{MaxLoginAttempts: 3, RateLimitWindow: time.Minute, LockoutDuration: 10 * time.Minute})
	ip, email := "192.168.1.1", "alice@example.com"

	for i := 0; i < 2; i++ {
		assert.Zero(t, th.Check(RealmUser, ip, email))
		assert.Zero(t, th.Fail(RealmUser, ip, email))
	}
	assert.Equal(t, 10*time.Minute, th.Fail(RealmUser, ip, email))

	clock.advance(4 * time.Minute)
	assert.Equal(t, 6*time.Minute, th.Check(RealmUser, ip, email))

	clock.advance(6 * time.Minute)
	assert.Zero(t, th.Check(RealmUser, ip, email))
	assert.Zero(t, th.Fail(RealmUser, ip, email), "an expired lockout starts a fresh count")
}

func TestLoginThrottle_WindowExpiryResetsCount(t *testing.T) {
	th, clock := newTestThrottle(t, config.Auth{MaxLoginAttempts: 2, RateLimitWindow: time.Minute})
	ip, email := "10.0.0.1", "alice@example.com"

	th.Fail(RealmUser, ip, email)
	clock.advance(2 * time.Minute)
	assert.Zero(t, th.Fail(RealmUser, ip, email))
	assert.Zero(t, th.Check(RealmUser, ip, email))
}

func TestLoginThrottle_ResetClearsFailures(t *testing.T) {
	th, _ := newTestThrottle(t, config.Auth{MaxLoginAttempts: 2})
	ip, email := "10.0.0.1", "alice@example.com"

	th.Fail(RealmUser, ip, email)
	th.Reset(RealmUser, ip, email)
	assert.Zero(t, th.Fail(RealmUser, ip, email))
}

func TestLoginThrottle_KeysAreIndependent(t *testing.T) {
	th, _ := newTestThrottle(t, config.Auth{MaxLoginAttempts: 1})

	th.Fail(RealmUser, "10.0.0.1", "Alice@Example.com ")

	assert.NotZero(t, th.Check(RealmUser, "10.0.0.1", "alice@example.com"), "email case and spacing are ignored")
	assert.Zero(t, th.Check(RealmAdmin, "10.0.0.1", "alice@example.com"), "admin login is counted separately")
	assert.Zero(t, th.Check(RealmUser, "10.0.0.2", "alice@example.com"))
	assert.Zero(t, th.Check(RealmUser, "10.0.0.1", "bob@example.com"))
}

func TestLoginThrottle_Defaults(t *testing.T) {
	th, _ := newTestThrottle(t, config.Auth{})
	assert.Equal(t, defaultMaxLoginAttempts, th.limit)
	assert.Equal(t, defaultThrottleWindow, th.window)
	assert.Equal(t, defaultLockout, th.lockout)
}

func TestLoginThrottle_SweepDropsStaleEntries(t *testing.T) {
	th, clock := newTestThrottle(t, config.Auth{MaxLoginAttempts: 2, RateLimitWindow: time.Minute, LockoutDuration: time.Minute})

	th.Fail(RealmUser, "10.0.0.1", "a@example.com")
	th.Fail(RealmAdmin, "10.0.0.1", "b@example.com")
	th.Fail(RealmAdmin, "10.0.0.1", "b@example.com")

	clock.advance(30 * time.Second)
	th.Fail(RealmUser, "10.0.0.2", "c@example.com")

	clock.advance(45 * time.Second)
	th.sweep()

	assert.Len(t, th.entries, 1)
	_, ok := th.entries[newThrottleKey(RealmUser, "10.0.0.2", "c@example.com")]
	assert.True(t, ok)
}

func TestLoginThrottle_StopTwice(t *testing.T) {
	th := NewLoginThrottle(config.Auth{})
	th.Stop()
	th.Stop()
}
