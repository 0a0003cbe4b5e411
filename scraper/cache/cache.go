// Package cache provides a content-addressed store for raw scraped payloads.
// Byte-identical payloads map to the same key, so entries seen in earlier
// runs are recognized and dropped for as long as the process lives.
package cache

import (
	"sync"

	"github.com/eventlens-io/eventlens/utils"
)

type Store struct {
	mux      sync.RWMutex
	payloads map[string]string
}

func NewStore() *Store {
	return &Store{
		payloads: make(map[string]string),
	}
}

// TryAdd records payload under its content hash. It returns true if the
// payload was newly added, false if an identical payload is already present.
func (s *Store) TryAdd(payload string) bool {
	key := utils.Sha256(payload)

	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.payloads[key]; ok {
		return false
	}
	s.payloads[key] = payload
	return true
}

// GetAll returns a copy of the stored payloads keyed by content hash.
func (s *Store) GetAll() map[string]string {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make(map[string]string, len(s.payloads))
	for k, v := range s.payloads {
		out[k] = v
	}
	return out
}

func (s *Store) Clear() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.payloads = make(map[string]string)
}

func (s *Store) Len() int {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return len(s.payloads)
}
