// Package retry wraps bounded exponential backoff for calls to external
// dependencies (database, Redis). Only transient failures are retried;
// domain errors pass through untouched.
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/marisolvega/cakery-backend/pkg/config"
	apperrors "github.com/marisolvega/cakery-backend/pkg/errors"
)

// Policy describes how many attempts to make and how long to wait between them.
type Policy struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
}

// PolicyFromConfig builds a Policy from application configuration.
func PolicyFromConfig(cfg config.RetryConfig) Policy {
	p := Policy{MaxAttempts: cfg.MaxAttempts, BaseDelay: cfg.BaseDelay}
	if p.MaxAttempts == 0 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 100 * time.Millisecond
	}
	return p
}

// Do runs fn with exponential backoff. fn signals a retryable failure by
// returning Transient(err); any other error aborts immediately.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	delay := policy.BaseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	backoff := retry.NewExponential(delay)
	backoff = retry.WithMaxRetries(attempts-1, backoff)
	return retry.Do(ctx, backoff, fn)
}

// Transient marks err as retryable for Do.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return retry.RetryableError(err)
}

// Dependency wraps an exhausted-retries error as a dependency failure so the
// API surfaces it as 503 rather than an internal error.
func Dependency(err error, message string) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.CodeDependency, err, message)
}
