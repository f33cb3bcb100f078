package clock

import (
	"sync"
	"time"
)

// Clock is the wall-clock source used by every time-gated component.
type Clock interface {
	Now() time.Time
}

// System reads the real monotonic clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Mock provides a controllable time source for testing
type Mock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMock creates a mock clock frozen at start
func NewMock(start time.Time) *Mock {
	return &Mock{currentTime: start}
}

func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Set moves the mock to t
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the mock forward by d
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
