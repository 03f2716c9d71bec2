package retry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/retry"
)

func TestIsRetryableText(t *testing.T) {
	assert.True(t, retry.IsRetryableText(errors.New("429 too many requests")))
	assert.True(t, retry.IsRetryableText(errors.New("upstream returned a 5xx error")))
	assert.False(t, retry.IsRetryableText(errors.New("invalid api key")))
	assert.False(t, retry.IsRetryableText(nil))
}

func TestDoSucceedsOnThirdAttempt(t *testing.T) {
	attempts := 0
	result, err := retry.Do(context.Background(), retry.Policy{MaxAttempts: 3, Base: 1}, func(ctx context.Context, attempt int) (string, error) {
		attempts++
		if attempt < 2 {
			return "", errors.New("429 rate limit")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	_, err := retry.Do(context.Background(), retry.Policy{MaxAttempts: 5, Base: 1}, func(ctx context.Context, attempt int) (string, error) {
		attempts++
		return "", errors.New("invalid api key")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	_, err := retry.Do(context.Background(), retry.Policy{MaxAttempts: 3, Base: 1}, func(ctx context.Context, attempt int) (string, error) {
		attempts++
		return "", errors.New("connection reset")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}
