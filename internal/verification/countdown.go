package verification

import (
	"context"
	"sync"
	"time"
)

// DefaultCodeTTLSeconds matches the API's verification-code expiry window.
const DefaultCodeTTLSeconds = 120

// Countdown tracks how long a texted verification code stays confirmable.
// It advances on a periodic one-second tick, independent of any network
// state, and fires its expiry callback exactly once when the time elapses.
// Handlers consult Expired to disable the confirm action.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	fired     bool
	onExpire  func()
	interval  time.Duration
}

// NewCountdown creates a countdown over the given number of seconds.
// onExpire may be nil.
func NewCountdown(seconds int, onExpire func()) *Countdown {
	if seconds <= 0 {
		seconds = DefaultCodeTTLSeconds
	}
	return &Countdown{
		remaining: seconds,
		onExpire:  onExpire,
		interval:  time.Second,
	}
}

// Start runs the tick loop until the countdown expires or the context is
// cancelled.
func (countdown *Countdown) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(countdown.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if countdown.Tick() {
					return
				}
			}
		}
	}()
}

// Tick advances the countdown by one second and reports whether it has
// expired. The expiry callback fires on the tick that reaches zero, and only
// on that tick.
func (countdown *Countdown) Tick() bool {
	countdown.mu.Lock()
	if countdown.remaining > 0 {
		countdown.remaining--
	}
	justExpired := countdown.remaining == 0 && !countdown.fired
	if justExpired {
		countdown.fired = true
	}
	callback := countdown.onExpire
	expired := countdown.remaining == 0
	countdown.mu.Unlock()

	if justExpired && callback != nil {
		callback()
	}
	return expired
}

// Remaining reports the seconds left.
func (countdown *Countdown) Remaining() int {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	return countdown.remaining
}

// Expired reports whether the window has elapsed.
func (countdown *Countdown) Expired() bool {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	return countdown.remaining == 0
}
