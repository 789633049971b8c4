// Package memory provides an in-process session store, suitable for
// tests and single-instance deployments without persistence needs.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/convoy/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string][]domain.Message
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]domain.Message),
	}
}

// Save persists the log in memory.
func (s *Store) Save(ctx context.Context, sessionID string, log []domain.Message) error {
	// Copy on write so the caller's slice stays theirs.
	copied := make([]domain.Message, len(log))
	copy(copied, log)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the log from memory.
func (s *Store) Load(ctx context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so the caller cannot mutate stored messages.
	copied := make([]domain.Message, len(log))
	copy(copied, log)
	return copied, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
