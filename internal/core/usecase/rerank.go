package usecase

import (
	"sort"
	"strings"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// rerankUnits is a second, cheaper lexical pass layered after retrieval.
// It deliberately tokenizes by whitespace with no length filter — an
// independent signal from the retriever's scoring — and counts unweighted
// token presence in content or title. Stable on ties, so the retriever's
// order survives for equal scores.
func rerankUnits(units []domain.KnowledgeUnit, query string) []domain.KnowledgeUnit {
	if len(units) < 2 {
		return units
	}

	tokens := strings.Fields(strings.ToLower(query))

	type rankedUnit struct {
		unit  domain.KnowledgeUnit
		score int
	}
	ranked := make([]rankedUnit, len(units))
	for i, unit := range units {
		content := strings.ToLower(unit.Content)
		title := strings.ToLower(unit.ChunkTitle)
		score := 0
		for _, token := range tokens {
			if strings.Contains(content, token) || strings.Contains(title, token) {
				score++
			}
		}
		ranked[i] = rankedUnit{unit: unit, score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]domain.KnowledgeUnit, len(ranked))
	for i, r := range ranked {
		out[i] = r.unit
	}
	return out
}
