// Package live fans collection updates out to streaming observers.
package live

import "sync"

// Hub broadcasts a value to every subscriber. Broadcast never blocks
// on a slow subscriber: when a subscriber's buffer is full the stale
// value is replaced by the latest one, so observers always converge on
// the current state even if they miss intermediate updates.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[chan T]struct{})}
}

// Subscribe registers a new observer and returns its update channel.
func (h *Hub[T]) Subscribe() chan T {
	ch := make(chan T, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes an observer and closes its channel.
func (h *Hub[T]) Unsubscribe(ch chan T) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Broadcast delivers v to every subscriber.
func (h *Hub[T]) Broadcast(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- v:
		default:
			// Evict the stale buffered value and retry once.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Len reports the number of active subscribers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
