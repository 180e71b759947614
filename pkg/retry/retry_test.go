package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marisolvega/cakery-backend/pkg/config"
	apperrors "github.com/marisolvega/cakery-backend/pkg/errors"
)

func testPolicy(attempts uint64) Policy {
	return Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), testPolicy(3), func(context.Context) error {
		calls++
		if calls < 3 {
			return Transient(errors.New("connection refused"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := apperrors.New(apperrors.CodeNotFound, "order not found")
	calls := 0
	err := Do(context.Background(), testPolicy(5), func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected the permanent error back, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	transient := errors.New("timeout")
	calls := 0
	err := Do(context.Background(), testPolicy(3), func(context.Context) error {
		calls++
		return Transient(transient)
	})
	if !errors.Is(err, transient) {
		t.Fatalf("expected underlying transient error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoZeroValuePolicyMakesOneAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{}, func(context.Context) error {
		calls++
		return Transient(errors.New("timeout"))
	})
	if err == nil {
		t.Fatal("expected the transient error after the single attempt")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestPolicyFromConfigDefaults(t *testing.T) {
	p := PolicyFromConfig(config.RetryConfig{})
	if p.MaxAttempts != 1 {
		t.Fatalf("expected at least one attempt, got %d", p.MaxAttempts)
	}
	if p.BaseDelay <= 0 {
		t.Fatalf("expected positive base delay, got %s", p.BaseDelay)
	}
}

func TestDependencyWrapsAsDependencyError(t *testing.T) {
	err := Dependency(errors.New("redis down"), "notification store unavailable")
	if !apperrors.IsCode(err, apperrors.CodeDependency) {
		t.Fatalf("expected dependency error code, got %v", err)
	}
	if Dependency(nil, "noop") != nil {
		t.Fatal("expected nil passthrough")
	}
}
