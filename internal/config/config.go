package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8001"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	CorpusFiles []string `env:"CORPUS_FILES" envSeparator:","`

	LLM     LLMConfig
	Qdrant  QdrantConfig
	Session SessionConfig
	Breaker BreakerConfig
}

type LLMConfig struct {
	APIKey            string  `env:"LLM_API_KEY"`
	BaseURL           string  `env:"LLM_BASE_URL"`
	Model             string  `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingModel    string  `env:"LLM_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	AnswerTemperature float32 `env:"LLM_ANSWER_TEMPERATURE" envDefault:"0"`
	CaseTemperature   float32 `env:"LLM_CASE_TEMPERATURE" envDefault:"0.1"`
}

type QdrantConfig struct {
	URL            string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	Collection     string `env:"QDRANT_COLLECTION" envDefault:"medrag_knowledge"`
	IndexOnStartup bool   `env:"QDRANT_INDEX_ON_STARTUP" envDefault:"false"`
	EmbedBatchSize int    `env:"QDRANT_EMBED_BATCH_SIZE" envDefault:"64"`
}

type SessionConfig struct {
	// Backend selects where sessions live: memory, ttl or postgres.
	Backend     string        `env:"SESSION_BACKEND" envDefault:"memory"`
	TTL         time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	PostgresDSN string        `env:"SESSION_POSTGRES_DSN"`
}

type BreakerConfig struct {
	Enabled          bool          `env:"BREAKER_ENABLED" envDefault:"true"`
	MinRequests      uint32        `env:"BREAKER_MIN_REQUESTS" envDefault:"10"`
	FailureRatio     float64       `env:"BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	OpenTimeout      time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
	HalfOpenMaxCalls uint32        `env:"BREAKER_HALF_OPEN_MAX_CALLS" envDefault:"2"`
}

// Load reads the environment, with a best-effort .env overlay for local
// runs.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.CorpusFiles) == 0 {
		return fmt.Errorf("CORPUS_FILES is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}

	switch c.Session.Backend {
	case "memory":
	case "ttl":
		if c.Session.TTL <= 0 {
			return fmt.Errorf("SESSION_TTL must be positive for the ttl backend")
		}
	case "postgres":
		if c.Session.PostgresDSN == "" {
			return fmt.Errorf("SESSION_POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	if c.Qdrant.EmbedBatchSize <= 0 {
		return fmt.Errorf("QDRANT_EMBED_BATCH_SIZE must be positive")
	}
	return nil
}
