package otp

import (
	"sync"
	"time"
)

// Lockout defaults.
const (
	DefaultMaxAttempts = 5
	DefaultCooldown    = 2 * time.Minute
)

// Lockout tracks wrong-code attempts per flow and enforces a fixed cooldown
// after too many failures, so "too many attempts" renders differently from
// "wrong code".
type Lockout struct {
	mu          sync.Mutex
	maxAttempts int
	cooldown    time.Duration
	fails       int
	until       time.Time
}

// NewLockout builds a lockout; zero arguments select the defaults.
func NewLockout(maxAttempts int, cooldown time.Duration) *Lockout {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Lockout{maxAttempts: maxAttempts, cooldown: cooldown}
}

// Fail records a wrong code. Reaching the limit starts the cooldown and resets
// the counter for the next window.
func (l *Lockout) Fail() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fails++
	if l.fails >= l.maxAttempts {
		l.until = time.Now().Add(l.cooldown)
		l.fails = 0
	}
}

// Locked reports whether the flow is cooling down, and for how much longer.
func (l *Lockout) Locked() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	left := time.Until(l.until)
	if left <= 0 {
		return false, 0
	}
	return true, left
}

// Reset clears failures and any active cooldown (after a successful verify).
func (l *Lockout) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fails = 0
	l.until = time.Time{}
}
