package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mocha-health/medrag/internal/core/domain"
)

const (
	// Answers at or under this rune count are discarded: short
	// completions for this prompt shape are empirically uninformative.
	symptomMinAnswerRunes = 50
	symptomMaxAnswers     = 2
	symptomAnswerCapRunes = 500
)

var symptomQuerySuffixes = []string{"lâm sàng", "triệu chứng", "dấu hiệu"}

// SymptomSummarizer collects documented symptoms of a disease through a
// few fixed query variants of the RAG pipeline.
type SymptomSummarizer struct {
	query KnowledgeQuerier
}

func NewSymptomSummarizer(query KnowledgeQuerier) *SymptomSummarizer {
	return &SymptomSummarizer{query: query}
}

// FindSymptoms returns a joined summary of the first two qualifying
// answers, each capped at 500 runes, plus every source behind a
// qualifying answer. When nothing qualifies, a fixed placeholder naming
// the disease is returned instead of an error.
func (s *SymptomSummarizer) FindSymptoms(ctx context.Context, disease string) (string, []domain.KnowledgeUnit, error) {
	disease = strings.TrimSpace(disease)
	if disease == "" {
		return "", nil, domain.WrapError(domain.ErrEmptyInput, "find symptoms", errEmptyDisease)
	}

	var kept []string
	var sources []domain.KnowledgeUnit
	for _, suffix := range symptomQuerySuffixes {
		answer, err := s.query.Answer(ctx, disease+" "+suffix)
		if err != nil {
			return "", nil, fmt.Errorf("symptom query %q: %w", suffix, err)
		}

		text := strings.TrimSpace(answer.Text)
		if utf8.RuneCountInString(text) <= symptomMinAnswerRunes {
			continue
		}
		kept = append(kept, truncateRunes(text, symptomAnswerCapRunes))
		sources = append(sources, answer.Sources...)
	}

	if len(kept) == 0 {
		return fmt.Sprintf("Không tìm thấy thông tin triệu chứng cho %s", disease), nil, nil
	}
	if len(kept) > symptomMaxAnswers {
		kept = kept[:symptomMaxAnswers]
	}
	return strings.Join(kept, "\n\n"), sources, nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
