package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mocha-health/medrag/internal/core/domain"
	"github.com/mocha-health/medrag/internal/core/ports"
)

const minKeywordTokenLen = 3

// RetrievalObserver receives retrieval outcome signals. Implementations
// must be safe for concurrent use.
type RetrievalObserver interface {
	KeywordHit(units int)
	SemanticFallback()
}

type noopObserver struct{}

func (noopObserver) KeywordHit(int)    {}
func (noopObserver) SemanticFallback() {}

// HybridRetriever searches the corpus keyword-first and falls back to the
// semantic port only when no unit matches any query token. Pure over the
// immutable corpus: two calls with the same query return identical results.
type HybridRetriever struct {
	corpus   []domain.KnowledgeUnit
	semantic ports.SimilaritySearcher
	observer RetrievalObserver
}

func NewHybridRetriever(
	corpus []domain.KnowledgeUnit,
	semantic ports.SimilaritySearcher,
	observer RetrievalObserver,
) *HybridRetriever {
	if observer == nil {
		observer = noopObserver{}
	}
	return &HybridRetriever{
		corpus:   corpus,
		semantic: semantic,
		observer: observer,
	}
}

func (r *HybridRetriever) Search(ctx context.Context, query string, k int) ([]domain.KnowledgeUnit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("retrieve: k must be positive, got %d", k)
	}

	// Keyword hits always win over semantic results. The over-fetch to
	// k*2 mirrors the scoring cut the corpus was tuned with.
	hits := r.keywordSearch(query, k*2)
	if len(hits) > 0 {
		if len(hits) > k {
			hits = hits[:k]
		}
		r.observer.KeywordHit(len(hits))
		return hits, nil
	}

	r.observer.SemanticFallback()
	return r.semantic.Search(ctx, query, k)
}

func (r *HybridRetriever) keywordSearch(query string, limit int) []domain.KnowledgeUnit {
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return nil
	}

	scored := make([]domain.ScoredUnit, 0, 16)
	for _, unit := range r.corpus {
		title := strings.ToLower(unit.ChunkTitle)
		content := strings.ToLower(unit.Content)

		score := 0
		for _, token := range tokens {
			// Each token counts once per unit: title match outranks a
			// content-only match.
			if strings.Contains(title, token) {
				score += 2
			} else if strings.Contains(content, token) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, domain.ScoredUnit{Unit: unit, Score: score})
		}
	}

	// Stable sort keeps corpus order on ties, so earlier-indexed units
	// win deterministically.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]domain.KnowledgeUnit, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Unit)
	}
	return out
}

// queryTokens lowercases the query and splits it into word tokens of at
// least three runes, punctuation-insensitive. Duplicates are dropped so a
// repeated word cannot inflate a unit's score.
func queryTokens(query string) []string {
	raw := splitWordsLower(query)

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, token := range raw {
		if utf8.RuneCountInString(token) < minKeywordTokenLen {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

func splitWordsLower(s string) []string {
	if s == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
