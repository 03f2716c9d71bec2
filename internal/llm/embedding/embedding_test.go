package embedding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/llm/embedding"
)

func TestNewRoutesKnownProviderTagsToOpenAICompat(t *testing.T) {
	for _, tag := range []string{"openai", "siliconflow", "qwen"} {
		p, err := embedding.New(tag, embedding.Config{APIKey: "k", Model: "text-embedding-3-small"})
		require.NoError(t, err, tag)
		assert.NotNil(t, p, tag)
	}
}

func TestNewReturnsConfigErrorForUnconfiguredProviderTag(t *testing.T) {
	_, err := embedding.New("jina", embedding.Config{})
	require.Error(t, err)
	assert.True(t, codewikierr.Is(err, codewikierr.KindConfig))
}

func TestNewReturnsConfigErrorForUnknownProviderTag(t *testing.T) {
	_, err := embedding.New("not-a-real-provider", embedding.Config{})
	require.Error(t, err)
	assert.True(t, codewikierr.Is(err, codewikierr.KindConfig))
}
