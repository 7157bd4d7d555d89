package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	httpadapter "github.com/mocha-health/medrag/internal/adapters/http"
	"github.com/mocha-health/medrag/internal/config"
	"github.com/mocha-health/medrag/internal/core/ports"
	"github.com/mocha-health/medrag/internal/core/usecase"
	"github.com/mocha-health/medrag/internal/corpus"
	"github.com/mocha-health/medrag/internal/infrastructure/llm"
	"github.com/mocha-health/medrag/internal/infrastructure/resilience"
	"github.com/mocha-health/medrag/internal/infrastructure/session/memory"
	"github.com/mocha-health/medrag/internal/infrastructure/session/postgres"
	"github.com/mocha-health/medrag/internal/infrastructure/session/ttlcache"
	"github.com/mocha-health/medrag/internal/infrastructure/vector/qdrant"
	"github.com/mocha-health/medrag/internal/observability/metrics"
)

const serviceName = "medrag-api"

// App holds the wired object graph for the api process.
type App struct {
	Handler http.Handler

	closeFns []func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	knowledge, err := corpus.Load(cfg.CorpusFiles)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	slog.Info("corpus_loaded",
		"files", len(cfg.CorpusFiles),
		"units", len(knowledge.Units),
		"diseases", len(knowledge.Diseases),
	)

	serverMetrics := metrics.NewServerMetrics(serviceName)
	executor := resilience.NewExecutor(resilience.Config{
		BreakerEnabled:          cfg.Breaker.Enabled,
		BreakerMinRequests:      cfg.Breaker.MinRequests,
		BreakerFailureRatio:     cfg.Breaker.FailureRatio,
		BreakerOpenTimeout:      cfg.Breaker.OpenTimeout,
		BreakerHalfOpenMaxCalls: cfg.Breaker.HalfOpenMaxCalls,
	})

	client := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	answerGenerator := buildGenerator(client, cfg.LLM.Model, cfg.LLM.AnswerTemperature, executor, serverMetrics, "answer")
	caseGenerator := buildGenerator(client, cfg.LLM.Model, cfg.LLM.CaseTemperature, executor, serverMetrics, "case")

	embedder := llm.NewEmbedder(client, cfg.LLM.EmbeddingModel)
	vectorSearch := qdrant.New(cfg.Qdrant.URL, cfg.Qdrant.Collection, embedder)

	if cfg.Qdrant.IndexOnStartup {
		if err := indexCorpus(ctx, vectorSearch, knowledge, cfg.Qdrant.EmbedBatchSize); err != nil {
			return nil, fmt.Errorf("index corpus: %w", err)
		}
	}

	retriever := usecase.NewHybridRetriever(knowledge.Units, vectorSearch, serverMetrics)
	queryUC := usecase.NewQueryUseCase(retriever, answerGenerator)
	decomposer := usecase.NewFacetDecomposer(queryUC)
	symptoms := usecase.NewSymptomSummarizer(queryUC)

	store, err := app.buildSessionStore(ctx, cfg.Session)
	if err != nil {
		return nil, err
	}

	trainer := usecase.NewTrainingPipeline(symptoms, decomposer, caseGenerator, store)

	router := httpadapter.NewRouter(
		queryUC,
		decomposer,
		symptoms,
		trainer,
		knowledge.Diseases,
		serverMetrics.Handler(),
		func(next http.Handler) http.Handler {
			return serverMetrics.Middleware(serviceName, next)
		},
	)
	app.Handler = router.Handler()
	return app, nil
}

func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closeFns {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// buildGenerator stacks the decorators every generation handle gets:
// breaker first, timing outermost.
func buildGenerator(
	client *openai.Client,
	model string,
	temperature float32,
	executor *resilience.Executor,
	serverMetrics *metrics.ServerMetrics,
	operation string,
) ports.TextGenerator {
	base := llm.NewGenerator(client, model, temperature)
	resilient := llm.NewResilientGenerator(base, executor, "llm_"+operation)
	return metrics.NewInstrumentedGenerator(resilient, serverMetrics, serviceName, operation)
}

func indexCorpus(ctx context.Context, vectorSearch *qdrant.Client, knowledge *corpus.Corpus, batchSize int) error {
	units := knowledge.Units
	for start := 0; start < len(units); start += batchSize {
		end := start + batchSize
		if end > len(units) {
			end = len(units)
		}
		if err := vectorSearch.IndexUnits(ctx, units[start:end]); err != nil {
			return fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		slog.Info("corpus_indexed_batch", "from", start, "to", end)
	}
	return nil
}

func (a *App) buildSessionStore(ctx context.Context, cfg config.SessionConfig) (ports.SessionStore, error) {
	switch cfg.Backend {
	case "ttl":
		return ttlcache.New(cfg.TTL), nil
	case "postgres":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open session db: %w", err)
		}
		a.closeFns = append(a.closeFns, db.Close)

		store := postgres.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure session schema: %w", err)
		}
		return store, nil
	default:
		return memory.New(), nil
	}
}
