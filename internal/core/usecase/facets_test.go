package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mocha-health/medrag/internal/core/domain"
)

type querierFake struct {
	questions []string
	answers   map[string]*domain.Answer
	err       error
}

func (f *querierFake) Answer(_ context.Context, question string) (*domain.Answer, error) {
	f.questions = append(f.questions, question)
	if f.err != nil {
		return nil, f.err
	}
	if answer, ok := f.answers[question]; ok {
		return answer, nil
	}
	return &domain.Answer{Text: "trả lời cho " + question}, nil
}

func TestFacetDecomposerRunsSixSubQueriesInOrder(t *testing.T) {
	querier := &querierFake{}
	d := NewFacetDecomposer(querier)

	_, _, err := d.StandardAnswer(context.Background(), "viêm phổi")
	if err != nil {
		t.Fatalf("StandardAnswer() error = %v", err)
	}

	want := []string{
		"viêm phổi lâm sàng",
		"viêm phổi cận lâm sàng",
		"viêm phổi chẩn đoán xác định",
		"viêm phổi chẩn đoán phân biệt",
		"viêm phổi điều trị",
		"viêm phổi thuốc",
	}
	if len(querier.questions) != len(want) {
		t.Fatalf("questions = %v", querier.questions)
	}
	for i := range want {
		if querier.questions[i] != want[i] {
			t.Fatalf("question[%d] = %q, want %q", i, querier.questions[i], want[i])
		}
	}
}

func TestFacetDecomposerDocumentStructure(t *testing.T) {
	d := NewFacetDecomposer(&querierFake{})

	standard, _, err := d.StandardAnswer(context.Background(), "viêm phổi")
	if err != nil {
		t.Fatalf("StandardAnswer() error = %v", err)
	}
	if standard.Disease != "viêm phổi" {
		t.Fatalf("disease = %q", standard.Disease)
	}
	if len(standard.Facets) != 5 {
		t.Fatalf("expected 5 facets, got %d", len(standard.Facets))
	}

	headers := []string{
		"CHẨN ĐOÁN LÂM SÀNG:",
		"CHẨN ĐOÁN CẬN LÂM SÀNG:",
		"CHẨN ĐOÁN XÁC ĐỊNH:",
		"CHẨN ĐOÁN PHÂN BIỆT:",
		"CÁCH ĐIỀU TRỊ:",
	}
	pos := -1
	for _, header := range headers {
		next := strings.Index(standard.Content, header)
		if next <= pos {
			t.Fatalf("header %q out of order in:\n%s", header, standard.Content)
		}
		pos = next
	}

	// Treatment folds both sub-answers, newline-joined.
	treatment := standard.Facets["dieu_tri"]
	if treatment != "trả lời cho viêm phổi điều trị\ntrả lời cho viêm phổi thuốc" {
		t.Fatalf("dieu_tri = %q", treatment)
	}
}

func TestFacetDecomposerKeepsDuplicateSources(t *testing.T) {
	shared := domain.KnowledgeUnit{SectionID: "dup"}
	querier := &querierFake{answers: map[string]*domain.Answer{
		"viêm phổi lâm sàng":     {Text: "a", Sources: []domain.KnowledgeUnit{shared}},
		"viêm phổi cận lâm sàng": {Text: "b", Sources: []domain.KnowledgeUnit{shared}},
	}}
	d := NewFacetDecomposer(querier)

	_, sources, err := d.StandardAnswer(context.Background(), "viêm phổi")
	if err != nil {
		t.Fatalf("StandardAnswer() error = %v", err)
	}
	dups := 0
	for _, s := range sources {
		if s.SectionID == "dup" {
			dups++
		}
	}
	if dups != 2 {
		t.Fatalf("expected the shared unit twice, got %d", dups)
	}
}

func TestFacetDecomposerBlankDisease(t *testing.T) {
	d := NewFacetDecomposer(&querierFake{})
	_, _, err := d.StandardAnswer(context.Background(), " ")
	if !domain.IsKind(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestFacetDecomposerSubQueryErrorNamesFacet(t *testing.T) {
	d := NewFacetDecomposer(&querierFake{err: errors.New("pipeline fail")})
	_, _, err := d.StandardAnswer(context.Background(), "viêm phổi")
	if err == nil || !strings.Contains(err.Error(), "facet lam_sang") {
		t.Fatalf("expected facet-tagged error, got %v", err)
	}
}
