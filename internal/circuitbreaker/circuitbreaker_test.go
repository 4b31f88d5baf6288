package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testBreaker(failureThreshold int, openTimeout time.Duration) *CircuitBreaker {
	return New("test", &Config{
		FailureThreshold: failureThreshold,
		SuccessThreshold: 2,
		OpenTimeout:      openTimeout,
	}, zap.NewNop())
}

func TestExecute_Success(t *testing.T) {
	cb := testBreaker(3, time.Minute)

	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("expected closed state, got %s", cb.State())
	}
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := testBreaker(3, time.Minute)
	boom := fmt.Errorf("boom")

	for i := 0; i < 3; i++ {
		_ = cb.Execute(context.Background(), func(ctx context.Context) error {
			return boom
		})
	}

	if !cb.IsOpen() {
		t.Fatal("expected circuit to be open after threshold failures")
	}

	// Requests are now rejected without calling fn.
	called := false
	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpen) {
		t.Errorf("expected ErrOpen, got %v", err)
	}
	if called {
		t.Error("fn should not be called while circuit is open")
	}
}

func TestHalfOpenProbeClosesAfterSuccesses(t *testing.T) {
	cb := testBreaker(1, time.Millisecond)

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("boom")
	})
	if !cb.IsOpen() {
		t.Fatal("expected open circuit")
	}

	time.Sleep(5 * time.Millisecond)

	// First probe transitions to half-open; two successes close it.
	for i := 0; i < 2; i++ {
		if err := cb.Execute(context.Background(), func(ctx context.Context) error {
			return nil
		}); err != nil {
			t.Fatalf("probe %d failed: %v", i, err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("expected closed after successful probes, got %s", cb.State())
	}
}

func TestHalfOpenProbeFailureReopens(t *testing.T) {
	cb := testBreaker(1, time.Millisecond)

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("boom")
	})
	time.Sleep(5 * time.Millisecond)

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("still down")
	})

	if !cb.IsOpen() {
		t.Error("expected circuit reopened after failed probe")
	}
}

func TestContextCancellationDoesNotCount(t *testing.T) {
	cb := testBreaker(1, time.Minute)

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return context.Canceled
	})

	if cb.IsOpen() {
		t.Error("client cancellation must not open the circuit")
	}
}

func TestReset(t *testing.T) {
	cb := testBreaker(1, time.Minute)

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("boom")
	})
	if !cb.IsOpen() {
		t.Fatal("expected open circuit")
	}

	cb.Reset()
	if cb.State() != StateClosed {
		t.Errorf("expected closed after reset, got %s", cb.State())
	}
}

func TestStats(t *testing.T) {
	cb := testBreaker(2, time.Minute)

	_ = cb.Execute(context.Background(), func(ctx context.Context) error { return nil })
	_ = cb.Execute(context.Background(), func(ctx context.Context) error { return fmt.Errorf("x") })

	stats := cb.Stats()
	if stats.TotalRequests != 2 {
		t.Errorf("expected 2 requests, got %d", stats.TotalRequests)
	}
	if stats.TotalFailures != 1 {
		t.Errorf("expected 1 failure, got %d", stats.TotalFailures)
	}
	if stats.State != "closed" {
		t.Errorf("expected closed, got %s", stats.State)
	}
}
