package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mocha-health/medrag/internal/core/domain"
	"github.com/mocha-health/medrag/internal/infrastructure/resilience"
)

// wrapTemporaryIfNeeded tags transient transport and server-side failures
// so callers can distinguish them from permanent request errors.
func wrapTemporaryIfNeeded(err error) error {
	if err == nil {
		return nil
	}
	if isTemporary(err) {
		return errors.Join(domain.ErrTemporary, err)
	}
	return err
}

func isTemporary(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func classify(err error) resilience.ErrorClassification {
	// Caller mistakes and cancellations must not trip the breaker.
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{RecordFailure: false}
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 &&
		apiErr.HTTPStatusCode != http.StatusTooManyRequests {
		return resilience.ErrorClassification{RecordFailure: false}
	}
	return resilience.ErrorClassification{RecordFailure: true}
}

// ResilientGenerator routes generation calls through a circuit breaker.
// An open circuit surfaces as a temporary error.
type ResilientGenerator struct {
	next      *Generator
	executor  *resilience.Executor
	operation string
}

func NewResilientGenerator(next *Generator, executor *resilience.Executor, operation string) *ResilientGenerator {
	return &ResilientGenerator{next: next, executor: executor, operation: operation}
}

func (g *ResilientGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := g.executor.Execute(ctx, g.operation, func(ctx context.Context) error {
		var genErr error
		text, genErr = g.next.Generate(ctx, prompt)
		return genErr
	}, classify)
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			return "", errors.Join(domain.ErrTemporary, err)
		}
		return "", err
	}
	return text, nil
}
