package storage

import (
	"sync"
	"time"
)

// ServerClock hands out strictly increasing UTC timestamps.
// All message and activity timestamps come from it, never from clients.
type ServerClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewServerClock() *ServerClock {
	return &ServerClock{now: func() time.Time { return time.Now().UTC() }}
}

// NewServerClockFrom is used by tests to pin the wall clock.
func NewServerClockFrom(now func() time.Time) *ServerClock {
	return &ServerClock{now: now}
}

func (c *ServerClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}
