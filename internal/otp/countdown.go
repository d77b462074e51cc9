package otp

import (
	"sync"
	"time"
)

// Countdown is the one-second visual timer behind OTP expiry and the resend
// cooldown. Stop must be called on teardown so the ticker goroutine never
// outlives its owner; calling Stop more than once is safe.
type Countdown struct {
	mu        sync.Mutex
	remaining int

	stop     chan struct{}
	stopOnce sync.Once
	onTick   func(remaining int)
}

// NewCountdown starts a countdown from seconds, invoking onTick (may be nil)
// once per second including the final tick at zero.
func NewCountdown(seconds int, onTick func(remaining int)) *Countdown {
	c := &Countdown{
		remaining: seconds,
		stop:      make(chan struct{}),
		onTick:    onTick,
	}
	go c.loop()
	return c
}

// Remaining returns the seconds left, zero once finished.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Done reports whether the countdown reached zero.
func (c *Countdown) Done() bool { return c.Remaining() == 0 }

// Stop halts the ticker. Safe to call twice and after completion.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Countdown) loop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.remaining > 0 {
				c.remaining--
			}
			remaining := c.remaining
			c.mu.Unlock()
			if c.onTick != nil {
				c.onTick(remaining)
			}
			if remaining == 0 {
				c.Stop()
				return
			}
		}
	}
}
