package verification

import (
	"context"
	"sync"
)

// Registry holds the pending countdown for each session. Re-sending a code
// replaces the session's countdown and stops the old tick loop.
type Registry struct {
	mu         sync.Mutex
	countdowns map[string]*Countdown
	cancels    map[string]context.CancelFunc
}

func NewRegistry() *Registry {
	return &Registry{
		countdowns: make(map[string]*Countdown),
		cancels:    make(map[string]context.CancelFunc),
	}
}

// Begin starts a fresh countdown for the session, replacing any previous one.
func (registry *Registry) Begin(ctx context.Context, sessionID string, seconds int, onExpire func()) *Countdown {
	registry.mu.Lock()
	if cancel, exists := registry.cancels[sessionID]; exists {
		cancel()
	}

	countdown := NewCountdown(seconds, onExpire)
	tickCtx, cancel := context.WithCancel(ctx)
	registry.countdowns[sessionID] = countdown
	registry.cancels[sessionID] = cancel
	registry.mu.Unlock()

	countdown.Start(tickCtx)
	return countdown
}

// Get returns the session's pending countdown, if any.
func (registry *Registry) Get(sessionID string) (*Countdown, bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	countdown, exists := registry.countdowns[sessionID]
	return countdown, exists
}

// Drop removes a session's countdown and stops its tick loop, used once the
// code is confirmed or the session ends.
func (registry *Registry) Drop(sessionID string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if cancel, exists := registry.cancels[sessionID]; exists {
		cancel()
		delete(registry.cancels, sessionID)
	}
	delete(registry.countdowns, sessionID)
}
