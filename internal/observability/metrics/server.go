package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics carries the api process metrics on a private registry so
// tests can build independent instances without collisions. It doubles as
// the retrieval observer for the hybrid retriever.
type ServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	keywordHitsTotal       prometheus.Counter
	semanticFallbacksTotal prometheus.Counter
	retrievedUnits         prometheus.Histogram
	generationDuration     *prometheus.HistogramVec
	generationErrorsTotal  *prometheus.CounterVec
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medrag",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medrag",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "medrag",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	keywordHitsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medrag",
			Subsystem: "rag",
			Name:      "keyword_hits_total",
			Help:      "Retrievals answered from the keyword index.",
		},
	)
	semanticFallbacksTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medrag",
			Subsystem: "rag",
			Name:      "semantic_fallbacks_total",
			Help:      "Retrievals that fell back to vector search.",
		},
	)
	retrievedUnits := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "medrag",
			Subsystem: "rag",
			Name:      "retrieved_units",
			Help:      "Distribution of keyword-retrieved units per query.",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8},
		},
	)
	generationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medrag",
			Subsystem: "llm",
			Name:      "generation_duration_seconds",
			Help:      "Text generation duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"service", "operation"},
	)
	generationErrorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medrag",
			Subsystem: "llm",
			Name:      "generation_errors_total",
			Help:      "Failed text generation calls.",
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		keywordHitsTotal,
		semanticFallbacksTotal,
		retrievedUnits,
		generationDuration,
		generationErrorsTotal,
	)

	return &ServerMetrics{
		registry:               registry,
		requestTotal:           requestTotal,
		requestDuration:        requestDuration,
		requestInFlight:        requestInFlight,
		keywordHitsTotal:       keywordHitsTotal,
		semanticFallbacksTotal: semanticFallbacksTotal,
		retrievedUnits:         retrievedUnits,
		generationDuration:     generationDuration,
		generationErrorsTotal:  generationErrorsTotal,
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// KeywordHit and SemanticFallback implement the retrieval observer used
// by the hybrid retriever.
func (m *ServerMetrics) KeywordHit(units int) {
	m.keywordHitsTotal.Inc()
	m.retrievedUnits.Observe(float64(units))
}

func (m *ServerMetrics) SemanticFallback() {
	m.semanticFallbacksTotal.Inc()
}

func (m *ServerMetrics) RecordGeneration(service, operation string, duration time.Duration, err error) {
	m.generationDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
	if err != nil {
		m.generationErrorsTotal.WithLabelValues(service, operation).Inc()
	}
}

func (m *ServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		// The chi route pattern keeps label cardinality bounded even for
		// unmatched paths.
		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = "unmatched"
		}

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
