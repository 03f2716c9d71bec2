package rerank_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/llm/rerank"
)

func TestSimilarityNormalizesScoresToUnitRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rerank", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"index":0,"relevance_score":0.2},{"index":1,"relevance_score":0.8}],"usage":{"total_tokens":42}}`))
	}))
	defer server.Close()

	p := rerank.NewOpenAICompat(rerank.Config{BaseURL: server.URL, Model: "rerank-1", APIKey: "key"})
	scores, tokens, err := p.Similarity(context.Background(), "query", []string{"doc a", "doc b"})
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.InDelta(t, 0.0, scores[0], 1e-9)
	assert.InDelta(t, 1.0, scores[1], 1e-9)
	assert.EqualValues(t, 42, tokens)
}

func TestSimilarityFallsBackToZeroWhenAllScoresTie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"index":0,"relevance_score":0.5},{"index":1,"relevance_score":0.5}]}`))
	}))
	defer server.Close()

	p := rerank.NewOpenAICompat(rerank.Config{BaseURL: server.URL, Model: "rerank-1"})
	scores, _, err := p.Similarity(context.Background(), "query", []string{"doc a", "doc b"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, scores)
}

func TestNewReturnsConfigErrorForUnconfiguredProviderTag(t *testing.T) {
	_, err := rerank.New("cohere", rerank.Config{})
	require.Error(t, err)
	assert.True(t, codewikierr.Is(err, codewikierr.KindConfig))
}

func TestNewRoutesOpenAICompatibleTag(t *testing.T) {
	p, err := rerank.New("openai_compatible", rerank.Config{BaseURL: "https://api.example.com"})
	require.NoError(t, err)
	assert.NotNil(t, p)
}
