package auth

import (
	"strings"
	"sync"
	"time"
)

// RateLimitConfig bounds failed logins per client IP and email.
// Zero values fall back to 5 failures in 15 minutes, a 30 minute lockout
// and a 5 minute sweep.
type RateLimitConfig struct {
	MaxAttempts     int
	WindowDuration  time.Duration
	LockoutDuration time.Duration
	CleanupInterval time.Duration
}

func (cfg RateLimitConfig) withDefaults() RateLimitConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = 15 * time.Minute
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	return cfg
}

type limiterKey struct {
	ip    string
	email string
}

func newLimiterKey(ip, email string) limiterKey {
	return limiterKey{ip: ip, email: strings.ToLower(strings.TrimSpace(email))}
}

// failureLog keeps the timestamps of recent failures, oldest first.
type failureLog struct {
	failures    []time.Time
	lockedUntil time.Time
}

// prune drops failures that fell out of the sliding window.
func (l *failureLog) prune(cutoff time.Time) {
	i := 0
	for i < len(l.failures) && !l.failures[i].After(cutoff) {
		i++
	}
	l.failures = l.failures[i:]
}

func (l *failureLog) locked(now time.Time) bool {
	return now.Before(l.lockedUntil)
}

// RateLimiter throttles login attempts before they reach the backend. It
// counts failures over a sliding window and locks the key out once the
// limit is hit.
type RateLimiter struct {
	cfg      RateLimitConfig
	mu       sync.RWMutex
	attempts map[limiterKey]*failureLog
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter starts a limiter together with its sweep goroutine.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		cfg:      cfg.withDefaults(),
		attempts: make(map[limiterKey]*failureLog),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Stop ends the sweep goroutine. Calling it more than once is harmless.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// Allow reports whether the key may try again and, if not, how long it has
// to wait.
func (rl *RateLimiter) Allow(ip, email string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.RLock()
	defer rl.mu.RUnlock()

	log, ok := rl.attempts[newLimiterKey(ip, email)]
	if !ok {
		return true, 0
	}
	if log.locked(now) {
		return false, log.lockedUntil.Sub(now)
	}

	cutoff := now.Add(-rl.cfg.WindowDuration)
	recent := 0
	for _, at := range log.failures {
		if at.After(cutoff) {
			recent++
		}
	}
	if recent >= rl.cfg.MaxAttempts {
		return false, rl.cfg.LockoutDuration
	}
	return true, 0
}

// RecordFailure notes a rejected login. It returns true with the lockout
// length when this failure reached the limit.
func (rl *RateLimiter) RecordFailure(ip, email string) (bool, time.Duration) {
	key := newLimiterKey(ip, email)
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	log, ok := rl.attempts[key]
	if !ok {
		log = &failureLog{}
		rl.attempts[key] = log
	}
	log.prune(now.Add(-rl.cfg.WindowDuration))
	log.failures = append(log.failures, now)

	if len(log.failures) < rl.cfg.MaxAttempts {
		return false, 0
	}
	log.failures = nil
	log.lockedUntil = now.Add(rl.cfg.LockoutDuration)
	return true, rl.cfg.LockoutDuration
}

// RecordSuccess forgets the key after a successful login.
func (rl *RateLimiter) RecordSuccess(ip, email string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, newLimiterKey(ip, email))
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup removes keys with no failures left in the window and no active
// lockout.
func (rl *RateLimiter) cleanup() {
	now := rl.now()
	cutoff := now.Add(-rl.cfg.WindowDuration)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, log := range rl.attempts {
		log.prune(cutoff)
		if len(log.failures) == 0 && !log.locked(now) {
			delete(rl.attempts, key)
		}
	}
}
