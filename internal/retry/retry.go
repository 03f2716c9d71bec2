// Package retry implements the single shared retry utility spec'd for the
// LLM adapter, the vector-store adapter, and GitHub/Gitee tool calls:
// bounded attempts, a retryable-error allowlist matched against the error
// text, and jittered exponential backoff.
package retry

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryableSubstrings is the case-insensitive allowlist an error's text is
// matched against. Non-matching errors fail immediately.
var retryableSubstrings = []string{
	"rate limit", "429", "5xx", "connection", "timeout", "network",
	"temporary", "busy", "overload", "service unavailable", "bad gateway",
	"gateway timeout", "too many requests",
}

// IsRetryableText reports whether err's message matches the shared
// retryable-error allowlist.
func IsRetryableText(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range retryableSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Policy configures one call to Do.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Defaults to 3 if <= 0.
	MaxAttempts int
	// Base is the backoff base duration. Defaults to 1s if <= 0.
	Base time.Duration
	// Cap bounds the computed delay. Defaults to 30s if <= 0.
	Cap time.Duration
	// IsRetryable decides whether a given error should be retried.
	// Defaults to IsRetryableText.
	IsRetryable func(error) bool
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.Base <= 0 {
		p.Base = time.Second
	}
	if p.Cap <= 0 {
		p.Cap = 30 * time.Second
	}
	if p.IsRetryable == nil {
		p.IsRetryable = IsRetryableText
	}
	return p
}

// delay computes min(Cap, Base · 2^attempt · jitter) with jitter drawn
// uniformly from [0.5, 1.5], attempt being 0-based.
func (p Policy) delay(attempt int) time.Duration {
	jitter := 0.5 + rand.Float64()
	d := time.Duration(float64(p.Base) * float64(uint64(1)<<uint(attempt)) * jitter)
	if d > p.Cap {
		return p.Cap
	}
	return d
}

// Do runs fn up to MaxAttempts times, sleeping the jittered exponential
// backoff delay between attempts, stopping early when fn's error does not
// match IsRetryable or ctx is canceled. It returns the last result and error.
func Do[T any](ctx context.Context, policy Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	policy = policy.withDefaults()
	var (
		result T
		err    error
	)
	for attempt := range policy.MaxAttempts {
		if ctxErr := ctx.Err(); ctxErr != nil {
			var zero T
			return zero, ctxErr
		}
		result, err = fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		if !policy.IsRetryable(err) {
			return result, err
		}
		if attempt == policy.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(policy.delay(attempt)):
		}
	}
	return result, err
}

// BackOff adapts Policy into a cenkalti/backoff/v4 BackOff, for callers that
// want backoff.Retry's richer context-aware retry loop instead of Do's
// simple loop.
func (p Policy) BackOff(ctx context.Context) backoff.BackOffContext {
	p = p.withDefaults()
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.Base
	eb.MaxInterval = p.Cap
	eb.Multiplier = 2
	eb.RandomizationFactor = 0.5
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(p.MaxAttempts-1)), ctx)
}
