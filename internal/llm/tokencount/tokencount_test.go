package tokencount_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/llm/tokencount"
)

func TestCountDefaultIsPositiveForNonEmptyText(t *testing.T) {
	c := tokencount.New()
	n, err := c.CountDefault("hello, world")
	require.NoError(t, err)
	assert.Greater(t, n, 0)
}

func TestCountEmptyTextIsZero(t *testing.T) {
	c := tokencount.New()
	n, err := c.CountDefault("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCountCachesEncodingAcrossCalls(t *testing.T) {
	c := tokencount.New()
	_, err := c.CountDefault("first call loads the encoding")
	require.NoError(t, err)
	n, err := c.CountDefault("second call reuses the cached encoding")
	require.NoError(t, err)
	assert.Greater(t, n, 0)
}
