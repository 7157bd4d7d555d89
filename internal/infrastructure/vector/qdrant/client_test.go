package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mocha-health/medrag/internal/core/domain"
)

type embedderFake struct {
	queries []string
	batches [][]string
	err     error
}

func (f *embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (f *embedderFake) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2}, nil
}

func TestSearchMapsPayloadToUnits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/med/points/search" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["limit"].(float64) != 4 {
			t.Fatalf("limit = %v", body["limit"])
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"payload": map[string]any{
					"content":       "nội dung",
					"source_file":   "NHIKHOA.json",
					"chunk_id":      "12",
					"chunk_title":   "Viêm phổi",
					"section_id":    "12.1",
					"section_title": "Điều trị",
				}},
			},
		})
	}))
	defer server.Close()

	embedder := &embedderFake{}
	client := New(server.URL, "med", embedder)

	units, err := client.Search(context.Background(), "viêm phổi", 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(embedder.queries) != 1 || embedder.queries[0] != "viêm phổi" {
		t.Fatalf("embedded queries = %v", embedder.queries)
	}
	if len(units) != 1 {
		t.Fatalf("units = %v", units)
	}
	u := units[0]
	if u.Content != "nội dung" || u.SectionID != "12.1" || u.ChunkTitle != "Viêm phổi" {
		t.Fatalf("unit = %+v", u)
	}
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "med", &embedderFake{})
	if _, err := client.Search(context.Background(), "q", 4); err == nil {
		t.Fatalf("expected error")
	}
}

func TestIndexUnitsUpsertsWithFullPayload(t *testing.T) {
	var upserted struct {
		Points []struct {
			ID      string         `json:"id"`
			Vector  []float32      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	var paths []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/collections/med/points" {
			if err := json.NewDecoder(r.Body).Decode(&upserted); err != nil {
				t.Fatalf("decode upsert: %v", err)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, "med", &embedderFake{})
	err := client.IndexUnits(context.Background(), []domain.KnowledgeUnit{
		{Content: "nội dung", SourceFile: "f", ChunkID: "1", ChunkTitle: "t", SectionID: "1.1", SectionTitle: "s"},
	})
	if err != nil {
		t.Fatalf("IndexUnits() error = %v", err)
	}

	// Collection ensure runs once before the upsert.
	if len(paths) != 2 || paths[0] != "PUT /collections/med" {
		t.Fatalf("paths = %v", paths)
	}
	if len(upserted.Points) != 1 {
		t.Fatalf("points = %v", upserted.Points)
	}
	payload := upserted.Points[0].Payload
	for _, key := range []string{"content", "source_file", "chunk_id", "chunk_title", "section_id", "section_title"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("payload missing %s: %v", key, payload)
		}
	}
	if upserted.Points[0].ID == "" {
		t.Fatalf("point id missing")
	}
}

func TestIndexUnitsEmptyBatchIsNoop(t *testing.T) {
	client := New("http://unused", "med", &embedderFake{})
	if err := client.IndexUnits(context.Background(), nil); err != nil {
		t.Fatalf("IndexUnits(nil) error = %v", err)
	}
}
