// Package session owns per-citizen UI state: the current view, the last
// recommendation round, search results and the chat transcript.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"govscheme-workers/internal/models"
	"govscheme-workers/internal/reference"
)

// Store persists session state. Update runs fn against the current state
// (a fresh one if the id is unknown) and saves the result atomically; if fn
// returns an error nothing is written and the error is returned unchanged.
type Store interface {
	Load(ctx context.Context, id string) (*models.SessionState, error)
	Update(ctx context.Context, id string, fn func(*models.SessionState) error) (*models.SessionState, error)
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*models.SessionState
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.SessionState),
		now:      time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*models.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s.Clone(), nil
	}
	return models.NewSessionState(id, reference.DefaultLanguage), nil
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(*models.SessionState) error) (*models.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[id]
	if !ok {
		current = models.NewSessionState(id, reference.DefaultLanguage)
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = m.now()
	m.sessions[id] = next
	return next.Clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
