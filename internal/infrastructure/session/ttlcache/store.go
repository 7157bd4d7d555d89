package ttlcache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// Store keeps sessions in an expiring in-process cache. A session that
// outlives its TTL becomes invalid exactly like an unknown identifier.
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func New(ttl time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, domain.ErrInvalidSession
	}
	session, ok := v.(domain.Session)
	if !ok {
		return nil, domain.ErrInvalidSession
	}
	return &session, nil
}

func (s *Store) Put(_ context.Context, session *domain.Session) error {
	s.cache.Set(session.ID, *session, s.ttl)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
