package memory

import (
	"context"
	"sync"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// Store keeps sessions in process memory. Sessions live until overwritten
// or deleted; restarting the process drops them all.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func New() *Store {
	return &Store{sessions: make(map[string]domain.Session)}
}

func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrInvalidSession
	}
	out := copySession(session)
	return &out, nil
}

func (s *Store) Put(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = copySession(*session)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// copySession detaches the sources slice so callers cannot mutate stored
// state through a returned or retained pointer.
func copySession(in domain.Session) domain.Session {
	out := in
	if in.Sources != nil {
		out.Sources = make([]domain.KnowledgeUnit, len(in.Sources))
		copy(out.Sources, in.Sources)
	}
	return out
}
