package testutil

import "sync"

// Counter is a thread-safe monotonic counter for deterministic test data.
//
// The first call to Next returns 1. Reset starts the sequence over, so the
// same scenario can run twice with identical values.
type Counter struct {
	mu  sync.Mutex
	seq int64
}

// NewCounter creates a counter starting at 0.
func NewCounter() *Counter {
	return &Counter{}
}

// Next increments and returns the next value.
func (c *Counter) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current value without incrementing.
func (c *Counter) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset resets the counter to 0.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
