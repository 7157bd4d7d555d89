package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mocha-health/medrag/internal/core/domain"
	"github.com/mocha-health/medrag/internal/core/ports"
	"github.com/mocha-health/medrag/internal/corpus"
)

// MetricsMiddleware instruments the whole router; the metrics package
// provides the production implementation.
type MetricsMiddleware func(next http.Handler) http.Handler

type Router struct {
	querier  ports.KnowledgeQuerier
	standard ports.StandardAnswerer
	symptoms ports.SymptomFinder
	trainer  ports.CaseTrainer
	catalog  []domain.Disease

	metricsHandler    http.Handler
	metricsMiddleware MetricsMiddleware
}

func NewRouter(
	querier ports.KnowledgeQuerier,
	standard ports.StandardAnswerer,
	symptoms ports.SymptomFinder,
	trainer ports.CaseTrainer,
	catalog []domain.Disease,
	metricsHandler http.Handler,
	metricsMiddleware MetricsMiddleware,
) *Router {
	return &Router{
		querier:           querier,
		standard:          standard,
		symptoms:          symptoms,
		trainer:           trainer,
		catalog:           catalog,
		metricsHandler:    metricsHandler,
		metricsMiddleware: metricsMiddleware,
	}
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	if rt.metricsMiddleware != nil {
		r.Use(rt.metricsMiddleware)
	}
	r.Use(accessLogMiddleware)

	r.Get("/api/health", rt.health)
	r.Get("/api/diseases", rt.listDiseases)
	r.Get("/api/categories", rt.listCategories)
	r.Get("/api/sections", rt.listSections)
	r.Post("/api/query", rt.query)
	r.Post("/api/standard-answer", rt.standardAnswer)
	r.Post("/api/symptoms", rt.findSymptoms)
	r.Post("/api/start-case", rt.startCase)
	r.Post("/api/evaluate", rt.evaluate)
	if rt.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", rt.metricsHandler)
	}

	return r
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) listDiseases(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	diseases := corpus.FilterDiseases(rt.catalog, category, search)
	writeJSON(w, http.StatusOK, map[string]any{
		"diseases": diseases,
		"total":    len(diseases),
	})
}

func (rt *Router) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": corpus.Categories(rt.catalog),
	})
}

func (rt *Router) listSections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sections": corpus.UniqueSections(rt.catalog),
	})
}

func (rt *Router) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	answer, err := rt.querier.Answer(r.Context(), req.Question)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:  answer.Text,
		Sources: toSourceDTOs(answer.Sources, true),
	})
}

func (rt *Router) standardAnswer(w http.ResponseWriter, r *http.Request) {
	var req diseaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	standard, sources, err := rt.standard.StandardAnswer(r.Context(), req.Disease)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, standardAnswerResponse{
		Disease: standard.Disease,
		Content: standard.Content,
		Facets:  standard.Facets,
		Sources: toSourceDTOs(sources, false),
	})
}

func (rt *Router) findSymptoms(w http.ResponseWriter, r *http.Request) {
	var req diseaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	symptoms, sources, err := rt.symptoms.FindSymptoms(r.Context(), req.Disease)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, symptomsResponse{
		Disease:  req.Disease,
		Symptoms: symptoms,
		Sources:  toSourceDTOs(sources, false),
	})
}

func (rt *Router) startCase(w http.ResponseWriter, r *http.Request) {
	var req startCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	start, err := rt.trainer.StartCase(r.Context(), req.Disease, req.SessionID)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, start)
}

func (rt *Router) evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := rt.trainer.Evaluate(r.Context(), req.SessionID, req.Diagnosis)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
