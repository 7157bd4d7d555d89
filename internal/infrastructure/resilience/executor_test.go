package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		BreakerEnabled:          true,
		BreakerMinRequests:      3,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	}
}

func TestExecutePassesThroughSuccess(t *testing.T) {
	e := NewExecutor(testConfig())

	ran := false
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		ran = true
		return nil
	}, nil)
	if err != nil || !ran {
		t.Fatalf("err = %v ran = %v", err, ran)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	e := NewExecutor(testConfig())
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_ = e.Execute(context.Background(), "op", func(context.Context) error {
			return boom
		}, nil)
	}

	called := false
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		called = true
		return nil
	}, nil)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if called {
		t.Fatalf("callback must not run while circuit is open")
	}
}

func TestExecuteIgnoresUnrecordedFailures(t *testing.T) {
	e := NewExecutor(testConfig())
	boom := errors.New("bad request")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{RecordFailure: false}
	}

	for i := 0; i < 10; i++ {
		_ = e.Execute(context.Background(), "op", func(context.Context) error {
			return boom
		}, classifier)
	}

	err := e.Execute(context.Background(), "op", func(context.Context) error {
		return nil
	}, classifier)
	if err != nil {
		t.Fatalf("circuit must stay closed for unrecorded failures: %v", err)
	}
}

func TestExecuteIsolatesOperations(t *testing.T) {
	e := NewExecutor(testConfig())
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_ = e.Execute(context.Background(), "failing", func(context.Context) error {
			return boom
		}, nil)
	}

	err := e.Execute(context.Background(), "healthy", func(context.Context) error {
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("unrelated operation tripped: %v", err)
	}
}

func TestExecuteDisabledBreakerPassesThrough(t *testing.T) {
	cfg := testConfig()
	cfg.BreakerEnabled = false
	e := NewExecutor(cfg)
	boom := errors.New("boom")

	for i := 0; i < 20; i++ {
		if err := e.Execute(context.Background(), "op", func(context.Context) error {
			return boom
		}, nil); !errors.Is(err, boom) {
			t.Fatalf("expected raw error, got %v", err)
		}
	}
}

func TestExecuteNilCallback(t *testing.T) {
	e := NewExecutor(testConfig())
	if err := e.Execute(context.Background(), "op", nil, nil); err == nil {
		t.Fatalf("expected error for nil callback")
	}
}
