package ports

import (
	"context"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// SimilaritySearcher is the semantic nearest-neighbor port, consulted only
// when keyword search yields zero hits. Best match first; an empty result
// is valid.
type SimilaritySearcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.KnowledgeUnit, error)
}

// TextGenerator is the synchronous text-generation port.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SessionStore keeps training sessions keyed by caller-supplied
// identifiers. Put overwrites an existing session wholesale. Get returns
// domain.ErrInvalidSession for an unknown identifier.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}
