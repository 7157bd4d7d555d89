package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mocha-health/medrag/internal/core/domain"
)

type semanticFake struct {
	calls   int
	query   string
	k       int
	results []domain.KnowledgeUnit
	err     error
}

func (f *semanticFake) Search(_ context.Context, query string, k int) ([]domain.KnowledgeUnit, error) {
	f.calls++
	f.query = query
	f.k = k
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type observerFake struct {
	keywordHits int
	lastUnits   int
	fallbacks   int
}

func (f *observerFake) KeywordHit(units int) {
	f.keywordHits++
	f.lastUnits = units
}
func (f *observerFake) SemanticFallback() { f.fallbacks++ }

func testCorpus() []domain.KnowledgeUnit {
	return []domain.KnowledgeUnit{
		{ChunkTitle: "Viêm phổi", Content: "Trẻ sốt cao, ho nhiều, thở nhanh.", SectionID: "1.1"},
		{ChunkTitle: "Tiêu chảy cấp", Content: "Trẻ đi ngoài phân lỏng nhiều lần.", SectionID: "2.1"},
		{ChunkTitle: "Sốt xuất huyết", Content: "Sốt cao liên tục, xuất huyết dưới da.", SectionID: "3.1"},
		{ChunkTitle: "Hen phế quản", Content: "Khò khè, khó thở tái diễn.", SectionID: "4.1"},
	}
}

func TestHybridRetrieverTitleMatchOutranksContentMatch(t *testing.T) {
	semantic := &semanticFake{}
	observer := &observerFake{}
	r := NewHybridRetriever(testCorpus(), semantic, observer)

	// "sốt" matches the title of unit 3 (+2) and only the content of
	// units 1 and 3; the title hit must come first.
	units, err := r.Search(context.Background(), "sốt", 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if units[0].SectionID != "3.1" {
		t.Fatalf("expected title match first, got %s", units[0].SectionID)
	}
	if units[1].SectionID != "1.1" {
		t.Fatalf("expected content match second, got %s", units[1].SectionID)
	}
	if semantic.calls != 0 {
		t.Fatalf("semantic search must not run on keyword hits")
	}
	if observer.keywordHits != 1 || observer.lastUnits != 2 {
		t.Fatalf("observer keywordHits = %d lastUnits = %d", observer.keywordHits, observer.lastUnits)
	}
}

func TestHybridRetrieverDeterministicTieBreak(t *testing.T) {
	r := NewHybridRetriever(testCorpus(), &semanticFake{}, nil)

	// Both pneumonia and dengue content contain "cao"; corpus order must
	// decide the tie, identically on every call.
	for i := 0; i < 3; i++ {
		units, err := r.Search(context.Background(), "cao", 4)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(units) != 2 {
			t.Fatalf("expected 2 units, got %d", len(units))
		}
		if units[0].SectionID != "1.1" || units[1].SectionID != "3.1" {
			t.Fatalf("tie-break order changed: %s, %s", units[0].SectionID, units[1].SectionID)
		}
	}
}

func TestHybridRetrieverSemanticFallbackOnZeroHits(t *testing.T) {
	semantic := &semanticFake{results: []domain.KnowledgeUnit{{SectionID: "9.1"}}}
	observer := &observerFake{}
	r := NewHybridRetriever(testCorpus(), semantic, observer)

	units, err := r.Search(context.Background(), "zzzzzz", 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if semantic.calls != 1 || semantic.k != 4 {
		t.Fatalf("semantic calls = %d k = %d", semantic.calls, semantic.k)
	}
	if len(units) != 1 || units[0].SectionID != "9.1" {
		t.Fatalf("expected semantic results passed through, got %v", units)
	}
	if observer.fallbacks != 1 || observer.keywordHits != 0 {
		t.Fatalf("observer fallbacks = %d keywordHits = %d", observer.fallbacks, observer.keywordHits)
	}
}

func TestHybridRetrieverShortTokensFallBack(t *testing.T) {
	// Every token is under three runes, so the keyword pass is skipped
	// entirely.
	semantic := &semanticFake{}
	r := NewHybridRetriever(testCorpus(), semantic, nil)

	if _, err := r.Search(context.Background(), "ho ra", 4); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if semantic.calls != 1 {
		t.Fatalf("expected semantic fallback, calls = %d", semantic.calls)
	}
}

func TestHybridRetrieverTruncatesToK(t *testing.T) {
	corpus := []domain.KnowledgeUnit{
		{ChunkTitle: "sốt a", SectionID: "1"},
		{ChunkTitle: "sốt b", SectionID: "2"},
		{ChunkTitle: "sốt c", SectionID: "3"},
	}
	r := NewHybridRetriever(corpus, &semanticFake{}, nil)

	units, err := r.Search(context.Background(), "sốt", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected k=2 units, got %d", len(units))
	}
}

func TestHybridRetrieverRejectsNonPositiveK(t *testing.T) {
	r := NewHybridRetriever(testCorpus(), &semanticFake{}, nil)
	if _, err := r.Search(context.Background(), "sốt", 0); err == nil {
		t.Fatalf("expected error for k=0")
	}
}

func TestHybridRetrieverSemanticErrorPropagates(t *testing.T) {
	semantic := &semanticFake{err: errors.New("qdrant down")}
	r := NewHybridRetriever(testCorpus(), semantic, nil)
	if _, err := r.Search(context.Background(), "zzzzzz", 4); err == nil {
		t.Fatalf("expected error")
	}
}

func TestQueryTokensDedupAndLowercase(t *testing.T) {
	tokens := queryTokens("Sốt SỐT, ho khó-thở sốt")
	want := []string{"sốt", "khó", "thở"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v", tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("tokens = %v, want %v", tokens, want)
		}
	}
}
