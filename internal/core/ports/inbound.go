package ports

import (
	"context"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// KnowledgeQuerier is the inbound contract for single-question RAG answers.
type KnowledgeQuerier interface {
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}

// StandardAnswerer builds the five-facet standard-answer document for a
// disease and reports every source consulted, in call order.
type StandardAnswerer interface {
	StandardAnswer(ctx context.Context, disease string) (*domain.StandardAnswer, []domain.KnowledgeUnit, error)
}

// SymptomFinder summarizes the documented symptoms of a disease.
type SymptomFinder interface {
	FindSymptoms(ctx context.Context, disease string) (string, []domain.KnowledgeUnit, error)
}

// CaseTrainer is the inbound contract for the two-phase training flow.
type CaseTrainer interface {
	StartCase(ctx context.Context, disease, sessionID string) (*domain.CaseStart, error)
	Evaluate(ctx context.Context, sessionID string, diagnosis domain.Diagnosis) (*domain.EvaluationResult, error)
}
