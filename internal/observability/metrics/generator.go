package metrics

import (
	"context"
	"time"

	"github.com/mocha-health/medrag/internal/core/ports"
)

// InstrumentedGenerator times every generation call for one logical
// operation label.
type InstrumentedGenerator struct {
	next      ports.TextGenerator
	metrics   *ServerMetrics
	service   string
	operation string
}

func NewInstrumentedGenerator(next ports.TextGenerator, m *ServerMetrics, service, operation string) *InstrumentedGenerator {
	return &InstrumentedGenerator{
		next:      next,
		metrics:   m,
		service:   service,
		operation: operation,
	}
}

func (g *InstrumentedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := g.next.Generate(ctx, prompt)
	g.metrics.RecordGeneration(g.service, g.operation, time.Since(start), err)
	return text, err
}
