package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// maxFacetAnswers caps how many sub-query answers feed one facet section.
const maxFacetAnswers = 2

// Facet is one clinical knowledge category of the standard-answer
// document. QuerySuffixes are appended to the disease name, one retrieval
// pass each; a single broad query under-retrieves structured clinical
// knowledge, so each facet biases the retriever toward its own vocabulary.
type Facet struct {
	Key           string
	Header        string
	QuerySuffixes []string
}

// clinicalFacets is the fixed decomposition, in render order. Treatment
// runs two sub-queries because drug names rarely co-occur with the
// general treatment vocabulary in the corpus.
var clinicalFacets = []Facet{
	{Key: "lam_sang", Header: "CHẨN ĐOÁN LÂM SÀNG", QuerySuffixes: []string{"lâm sàng"}},
	{Key: "can_lam_sang", Header: "CHẨN ĐOÁN CẬN LÂM SÀNG", QuerySuffixes: []string{"cận lâm sàng"}},
	{Key: "chan_doan_xac_dinh", Header: "CHẨN ĐOÁN XÁC ĐỊNH", QuerySuffixes: []string{"chẩn đoán xác định"}},
	{Key: "chan_doan_phan_biet", Header: "CHẨN ĐOÁN PHÂN BIỆT", QuerySuffixes: []string{"chẩn đoán phân biệt"}},
	{Key: "dieu_tri", Header: "CÁCH ĐIỀU TRỊ", QuerySuffixes: []string{"điều trị", "thuốc"}},
}

// FacetDecomposer folds per-facet retrieval answers into one
// standard-answer document. Sub-queries run sequentially so the collected
// sources keep deterministic call order; duplicates are intentionally not
// removed — a unit retrieved by two facets appears twice.
type FacetDecomposer struct {
	query  KnowledgeQuerier
	facets []Facet
}

// KnowledgeQuerier is the single-question pipeline the decomposer fans
// out over.
type KnowledgeQuerier interface {
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}

func NewFacetDecomposer(query KnowledgeQuerier) *FacetDecomposer {
	return &FacetDecomposer{
		query:  query,
		facets: clinicalFacets,
	}
}

func (d *FacetDecomposer) StandardAnswer(ctx context.Context, disease string) (*domain.StandardAnswer, []domain.KnowledgeUnit, error) {
	disease = strings.TrimSpace(disease)
	if disease == "" {
		return nil, nil, domain.WrapError(domain.ErrEmptyInput, "standard answer", errEmptyDisease)
	}

	sections := make(map[string]string, len(d.facets))
	var allSources []domain.KnowledgeUnit

	for _, facet := range d.facets {
		var texts []string
		for _, suffix := range facet.QuerySuffixes {
			answer, err := d.query.Answer(ctx, disease+" "+suffix)
			if err != nil {
				return nil, nil, fmt.Errorf("facet %s: %w", facet.Key, err)
			}
			texts = append(texts, answer.Text)
			allSources = append(allSources, answer.Sources...)
		}
		if len(texts) > maxFacetAnswers {
			texts = texts[:maxFacetAnswers]
		}
		sections[facet.Key] = strings.Join(texts, "\n")
	}

	return &domain.StandardAnswer{
		Disease: disease,
		Content: d.renderDocument(sections),
		Facets:  sections,
	}, allSources, nil
}

func (d *FacetDecomposer) renderDocument(sections map[string]string) string {
	var b strings.Builder
	for i, facet := range d.facets {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(facet.Header)
		b.WriteString(":\n")
		b.WriteString(sections[facet.Key])
	}
	return b.String()
}
