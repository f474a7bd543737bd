package clock

import (
	"sync"
	"time"
)

// Real provides the system time with monotonic clock readings
type Real struct{}

// NewReal creates a system clock
func NewReal() *Real {
	return &Real{}
}

// Now returns the current time
func (Real) Now() time.Time {
	return time.Now()
}

// Manual is a controllable clock for tests
type Manual struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManual creates a manual clock starting at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
