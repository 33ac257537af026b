package calendar

import "sync/atomic"

// Holder publishes the current Store to concurrent readers. Reloads replace
// the whole store; a reader keeps the snapshot it loaded for its computation.
type Holder struct {
	current atomic.Pointer[Store]
}

// NewHolder returns a Holder serving s
func NewHolder(s *Store) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Load returns the current store snapshot
func (h *Holder) Load() *Store {
	return h.current.Load()
}

// Store replaces the current store
func (h *Holder) Store(s *Store) {
	h.current.Store(s)
}

// Swap replaces the current store and returns the previous one
func (h *Holder) Swap(s *Store) *Store {
	return h.current.Swap(s)
}
