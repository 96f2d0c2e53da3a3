// Package events fans window-kernel changes out to live subscribers such as
// WebSocket clients.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// DefaultBuffer is the per-subscriber queue length
const DefaultBuffer = 64

// Broadcaster delivers window events to every subscriber without ever
// blocking the publisher. A subscriber whose queue is full misses the event.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan types.WindowEvent]struct{}
	buffer      int
	dropped     atomic.Uint64
}

// NewBroadcaster creates a broadcaster with the default queue length
func NewBroadcaster() *Broadcaster {
	return NewBroadcasterSize(DefaultBuffer)
}

// NewBroadcasterSize creates a broadcaster with the given queue length
func NewBroadcasterSize(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		subscribers: make(map[chan types.WindowEvent]struct{}),
		buffer:      buffer,
	}
}

// Subscribe adds a subscriber and returns its event channel.
// The caller must call Unsubscribe when done.
func (b *Broadcaster) Subscribe() chan types.WindowEvent {
	ch := make(chan types.WindowEvent, b.buffer)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown channels
// are ignored.
func (b *Broadcaster) Unsubscribe(ch chan types.WindowEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; !ok {
		return
	}
	delete(b.subscribers, ch)
	close(ch)
}

// Publish implements window.Publisher
func (b *Broadcaster) Publish(event types.WindowEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Count returns the current number of subscribers
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped returns how many deliveries were skipped for slow subscribers
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

// Close unsubscribes everyone
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
}
