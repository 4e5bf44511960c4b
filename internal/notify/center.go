// Package notify collects the transient notifications surfaced after
// mutations: success confirmations and the failure toasts the reconcilers
// emit when a request is rolled back.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notification stays visible before it dismisses
// itself.
const DefaultTTL = 3 * time.Second

// Level classifies a notification.
type Level int

const (
	// LevelInfo is a neutral confirmation.
	LevelInfo Level = iota
	// LevelSuccess confirms a committed mutation.
	LevelSuccess
	// LevelError reports a failed operation whose state was rolled back.
	LevelError
)

// Notification is one toast with its expiry instant.
type Notification struct {
	Level     Level
	Message   string
	ExpiresAt time.Time
}

// Center holds the currently visible notifications. Expired entries are
// pruned on every read, so callers never see a stale toast. Safe for
// concurrent use.
type Center struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Notification
}

// NewCenter creates a notification center with the default TTL.
func NewCenter() *Center {
	return &Center{ttl: DefaultTTL, now: time.Now}
}

// NewCenterWithClock creates a center with a custom TTL and clock.
func NewCenterWithClock(ttl time.Duration, now func() time.Time) *Center {
	return &Center{ttl: ttl, now: now}
}

// Push adds a notification that expires one TTL from now.
func (c *Center) Push(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, Notification{
		Level:     level,
		Message:   message,
		ExpiresAt: c.now().Add(c.ttl),
	})
}

// Info pushes a neutral notification.
func (c *Center) Info(message string) { c.Push(LevelInfo, message) }

// Success pushes a success notification.
func (c *Center) Success(message string) { c.Push(LevelSuccess, message) }

// Error pushes a failure notification.
func (c *Center) Error(message string) { c.Push(LevelError, message) }

// Active returns the notifications that have not expired yet, oldest first,
// and drops the expired ones.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	live := c.items[:0]
	for _, item := range c.items {
		if item.ExpiresAt.After(now) {
			live = append(live, item)
		}
	}
	c.items = live

	active := make([]Notification, len(live))
	copy(active, live)

	return active
}

// Clear drops every notification immediately.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
}
