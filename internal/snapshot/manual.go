package snapshot

import "sync"

// ManualSource delivers snapshots pushed through Emit. Used by tests
// and by deployments without a broker.
type ManualSource struct {
	mu sync.Mutex
	h  Handler
}

// NewManualSource creates a source with no subscriber yet.
func NewManualSource() *ManualSource {
	return &ManualSource{}
}

// Subscribe registers the handler for subsequent Emit calls.
func (s *ManualSource) Subscribe(h Handler) error {
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()
	return nil
}

// Emit delivers one snapshot to the subscriber, synchronously.
func (s *ManualSource) Emit(snap Snapshot) {
	s.mu.Lock()
	h := s.h
	s.mu.Unlock()
	if h != nil {
		h(snap)
	}
}

// Close detaches the subscriber.
func (s *ManualSource) Close() {
	s.mu.Lock()
	s.h = nil
	s.mu.Unlock()
}
