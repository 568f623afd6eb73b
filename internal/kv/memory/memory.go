package memory

import (
	"context"
	"sync"

	"homekeep/internal/kv"
)

// Store keeps values in a map. Contents are lost when the process exits.
type Store struct {
	mu     sync.Mutex
	values map[string][]byte

	// when non-nil, Set and Remove fail with it
	failWrites error
	writes     int
}

func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// NewWithValues seeds the store, copying every value.
func NewWithValues(seed map[string][]byte) *Store {
	s := New()
	for k, v := range seed {
		s.values[k] = append([]byte(nil), v...)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	s.values[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	delete(s.values, key)
	return nil
}

func (s *Store) Close() error { return nil }

// SetWriteError makes subsequent writes fail with err; nil restores normal behaviour.
func (s *Store) SetWriteError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = err
}

// Writes returns the number of successful Set calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
