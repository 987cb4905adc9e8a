package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, now *time.Time) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: 10 * time.Minute,
	})
	rl.now = func() time.Time { return *now }
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter_LocksAfterMaxFailures(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newTestLimiter(t, &now)

	for i := 0; i < 2; i++ {
		allowed, _ := rl.Allow("10.0.0.1", "ann@example.com")
		assert.True(t, allowed)
		locked, _ := rl.RecordFailure("10.0.0.1", "ann@example.com")
		assert.False(t, locked)
	}

	locked, lockout := rl.RecordFailure("10.0.0.1", "ann@example.com")
	assert.True(t, locked)
	assert.Equal(t, 10*time.Minute, lockout)

	allowed, retry := rl.Allow("10.0.0.1", "ann@example.com")
	assert.False(t, allowed)
	assert.Equal(t, 10*time.Minute, retry)

	now = now.Add(11 * time.Minute)
	allowed, _ = rl.Allow("10.0.0.1", "ann@example.com")
	assert.True(t, allowed)
}

func TestRateLimiter_EmailIsCaseInsensitive(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(t, &now)

	for i := 0; i < 3; i++ {
		rl.RecordFailure("10.0.0.1", "Ann@Example.com ")
	}

	allowed, _ := rl.Allow("10.0.0.1", "ann@example.com")
	assert.False(t, allowed)
}

func TestRateLimiter_SuccessResetsCounter(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(t, &now)

	rl.RecordFailure("10.0.0.1", "ann@example.com")
	rl.RecordFailure("10.0.0.1", "ann@example.com")
	rl.RecordSuccess("10.0.0.1", "ann@example.com")

	locked, _ := rl.RecordFailure("10.0.0.1", "ann@example.com")
	assert.False(t, locked)
}

func TestRateLimiter_IndependentKeys(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(t, &now)

	for i := 0; i < 3; i++ {
		rl.RecordFailure("10.0.0.1", "ann@example.com")
	}

	allowed, _ := rl.Allow("10.0.0.2", "ann@example.com")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("10.0.0.1", "bob@example.com")
	assert.True(t, allowed)
}

func TestRateLimiter_WindowExpiryResetsCount(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(t, &now)

	rl.RecordFailure("10.0.0.1", "ann@example.com")
	rl.RecordFailure("10.0.0.1", "ann@example.com")

	now = now.Add(2 * time.Minute)
	locked, _ := rl.RecordFailure("10.0.0.1", "ann@example.com")
	assert.False(t, locked)
}

func TestRateLimiter_CleanupDropsExpired(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(t, &now)

	rl.RecordFailure("10.0.0.1", "ann@example.com")
	now = now.Add(time.Hour)
	rl.cleanup()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Empty(t, rl.attempts)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimiter_SlidingWindowForgetsOldestFailure(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newTestLimiter(t, &now)

	rl.RecordFailure("10.0.0.1", "ann@example.com")
	now = now.Add(40 * time.Second)
	rl.RecordFailure("10.0.0.1", "ann@example.com")
	now = now.Add(30 * time.Second)

	// The first failure is now outside the one-minute window.
	locked, _ := rl.RecordFailure("10.0.0.1", "ann@example.com")
	assert.False(t, locked)

	now = now.Add(10 * time.Second)
	locked, lockout := rl.RecordFailure("10.0.0.1", "ann@example.com")
	assert.True(t, locked)
	assert.Equal(t, 10*time.Minute, lockout)
}

func TestRateLimiter_CleanupKeepsActiveLockout(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(t, &now)

	for i := 0; i < 3; i++ {
		rl.RecordFailure("10.0.0.1", "ann@example.com")
	}
	now = now.Add(5 * time.Minute)
	rl.cleanup()

	allowed, retry := rl.Allow("10.0.0.1", "ann@example.com")
	assert.False(t, allowed)
	assert.Equal(t, 5*time.Minute, retry)
}
