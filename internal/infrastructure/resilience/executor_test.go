package resilience

import (
	"context"
	"errors"
	"fmt"
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
	executor := NewExecutor(testConfig())

	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestExecuteTripsBreakerAfterRepeatedFailures(t *testing.T) {
	executor := NewExecutor(testConfig())
	failing := func(context.Context) error { return fmt.Errorf("provider down") }
	recordAll := func(error) bool { return true }

	for i := 0; i < 3; i++ {
		_ = executor.Execute(context.Background(), "op", failing, recordAll)
	}

	err := executor.Execute(context.Background(), "op", failing, recordAll)
	if !IsCircuitOpen(err) {
		t.Fatalf("err = %v, want open circuit", err)
	}
}

func TestExecuteIgnoresCallerMistakes(t *testing.T) {
	executor := NewExecutor(testConfig())
	badInput := errors.New("bad input")
	notAFailure := func(err error) bool { return !errors.Is(err, badInput) }

	for i := 0; i < 10; i++ {
		_ = executor.Execute(context.Background(), "op", func(context.Context) error {
			return badInput
		}, notAFailure)
	}

	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		return nil
	}, notAFailure)
	if err != nil {
		t.Fatalf("breaker tripped on non-failures: %v", err)
	}
}

func TestExecuteIgnoresCancellation(t *testing.T) {
	executor := NewExecutor(testConfig())
	recordAll := func(error) bool { return true }

	for i := 0; i < 10; i++ {
		_ = executor.Execute(context.Background(), "op", func(context.Context) error {
			return context.Canceled
		}, recordAll)
	}

	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		return nil
	}, recordAll)
	if err != nil {
		t.Fatalf("breaker tripped on cancellations: %v", err)
	}
}

func TestExecuteDisabledBreakerRunsDirectly(t *testing.T) {
	cfg := testConfig()
	cfg.BreakerEnabled = false
	executor := NewExecutor(cfg)
	failing := func(context.Context) error { return fmt.Errorf("down") }
	recordAll := func(error) bool { return true }

	for i := 0; i < 20; i++ {
		_ = executor.Execute(context.Background(), "op", failing, recordAll)
	}

	err := executor.Execute(context.Background(), "op", failing, recordAll)
	if IsCircuitOpen(err) {
		t.Fatal("disabled breaker must never open")
	}
}

func TestExecuteIsolatesOperations(t *testing.T) {
	executor := NewExecutor(testConfig())
	failing := func(context.Context) error { return fmt.Errorf("down") }
	recordAll := func(error) bool { return true }

	for i := 0; i < 5; i++ {
		_ = executor.Execute(context.Background(), "unhealthy", failing, recordAll)
	}

	err := executor.Execute(context.Background(), "healthy", func(context.Context) error {
		return nil
	}, recordAll)
	if err != nil {
		t.Fatalf("healthy operation affected by another breaker: %v", err)
	}
}
