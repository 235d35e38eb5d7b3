package core

import "sync"

// ComponentSet is the append-only, insertion-ordered set of initialized
// component ids.
type ComponentSet struct {
	mu    sync.RWMutex
	order []string
	index map[string]struct{}
}

// NewComponentSet creates an empty set.
func NewComponentSet() *ComponentSet {
	return &ComponentSet{index: make(map[string]struct{})}
}

// Add records id. It returns false if id was already present.
func (s *ComponentSet) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Has reports whether id is initialized.
func (s *ComponentSet) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// List returns the ids in the order they were added.
func (s *ComponentSet) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Len returns the number of initialized ids.
func (s *ComponentSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
