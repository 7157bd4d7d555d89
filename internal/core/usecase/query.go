package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mocha-health/medrag/internal/core/domain"
	"github.com/mocha-health/medrag/internal/core/ports"
	"github.com/mocha-health/medrag/internal/core/prompt"
)

var (
	errEmptyQuestion   = errors.New("question is blank")
	errEmptyDisease    = errors.New("disease is blank")
	errEmptySessionID  = errors.New("session id is blank")
	errEmptyCompletion = errors.New("generation service returned empty text")
)

// retrieveCandidates is the fixed fan-in of the query pipeline: four
// candidates retrieved, reranked, and cut to three for the prompt.
const retrieveCandidates = 4

// Retriever is the retrieval contract the pipeline consumes.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]domain.KnowledgeUnit, error)
}

// QueryUseCase runs retrieve → rerank → assemble → generate for one
// question. The returned sources are the full reranked candidate list,
// not just the assembled top three, so callers can display broader
// provenance than what the model saw.
type QueryUseCase struct {
	retriever Retriever
	generator ports.TextGenerator
}

func NewQueryUseCase(retriever Retriever, generator ports.TextGenerator) *QueryUseCase {
	return &QueryUseCase{
		retriever: retriever,
		generator: generator,
	}
}

func (uc *QueryUseCase) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrEmptyInput, "answer", errEmptyQuestion)
	}

	candidates, err := uc.retriever.Search(ctx, question, retrieveCandidates)
	if err != nil {
		return nil, fmt.Errorf("retrieve candidates: %w", err)
	}

	ranked := rerankUnits(candidates, question)

	text, err := uc.generator.Generate(ctx, prompt.Answer.Render(map[string]string{
		"context":  assembleContext(ranked),
		"question": question,
	}))
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "generate answer", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrGeneration, "generate answer", errEmptyCompletion)
	}

	return &domain.Answer{
		Text:    text,
		Sources: ranked,
	}, nil
}
