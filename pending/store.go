// Package pending holds at most one deeplink that arrived before routing was
// ready to handle it.
package pending

import "sync/atomic"

// Store is a single-slot, last-write-wins holder. A Set discards any value
// that was never read.
type Store struct {
	slot atomic.Pointer[string]
}

func New() *Store {
	return &Store{}
}

// Set overwrites the slot unconditionally. An empty url clears it.
func (s *Store) Set(url string) {
	if url == "" {
		s.slot.Store(nil)
		return
	}
	s.slot.Store(&url)
}

// Get reads the slot without clearing it.
func (s *Store) Get() (string, bool) {
	p := s.slot.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Expire clears the slot.
func (s *Store) Expire() {
	s.slot.Store(nil)
}

// Take returns the pending link and clears the slot in one step.
func (s *Store) Take() (string, bool) {
	p := s.slot.Swap(nil)
	if p == nil {
		return "", false
	}
	return *p, true
}
