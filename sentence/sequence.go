package sentence

import (
	"context"
	"sync"
)

// SequenceSource hands out sequential message identifiers for
// multi-sentence groups, one independent cycle per channel.
type SequenceSource interface {
	Next(ctx context.Context, channel string) (int, error)
}

// Counter is the in-process SequenceSource. Identifiers cycle 1..9.
type Counter struct {
	mu   sync.Mutex
	last map[string]int
}

// NewCounter returns a Counter with every channel at its initial state.
func NewCounter() *Counter {
	return &Counter{last: make(map[string]int)}
}

// Next returns the next identifier for channel.
func (c *Counter) Next(_ context.Context, channel string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.last[channel]%9 + 1
	c.last[channel] = n
	return n, nil
}
