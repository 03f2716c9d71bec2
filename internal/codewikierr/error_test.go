package codewikierr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

func TestWrapNilCauseReturnsNil(t *testing.T) {
	err := codewikierr.Wrap(codewikierr.KindIO, "read failed", nil)
	assert.Nil(t, err)
}

func TestOfAndIs(t *testing.T) {
	cause := errors.New("boom")
	err := codewikierr.Wrap(codewikierr.KindTransientRemote, "chat call failed", cause)

	kind, ok := codewikierr.Of(err)
	require.True(t, ok)
	assert.Equal(t, codewikierr.KindTransientRemote, kind)
	assert.True(t, codewikierr.Is(err, codewikierr.KindTransientRemote))
	assert.False(t, codewikierr.Is(err, codewikierr.KindIO))
	assert.ErrorIs(t, err, cause)
}

func TestOfRejectsPlainError(t *testing.T) {
	_, ok := codewikierr.Of(errors.New("plain"))
	assert.False(t, ok)
}

func TestRetryable(t *testing.T) {
	assert.True(t, codewikierr.Retryable(codewikierr.KindIO))
	assert.True(t, codewikierr.Retryable(codewikierr.KindTransientRemote))
	assert.False(t, codewikierr.Retryable(codewikierr.KindValidation))
	assert.False(t, codewikierr.Retryable(codewikierr.KindParse))
}
